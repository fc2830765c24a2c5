package printful_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/MichalMitros/printful-source/internal/platform/models"
	"github.com/MichalMitros/printful-source/internal/printful"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitGetAll(t *testing.T) {
	tests := map[string]struct {
		limit        int
		total        int
		records      int
		wantRequests int32
	}{
		"short final page": {
			limit:        2,
			total:        100, // bogus total, the short page must terminate anyway
			records:      5,
			wantRequests: 3,
		},
		"total matches before extra page": {
			limit:        2,
			total:        4,
			records:      4,
			wantRequests: 2, // no request for a third, empty page
		},
		"single short page": {
			limit:        20,
			total:        3,
			records:      3,
			wantRequests: 1,
		},
		"empty endpoint": {
			limit:        20,
			total:        0,
			records:      0,
			wantRequests: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var requests int32
			srv := httptest.NewServer(pagedHandler(t, tt.limit, tt.total, tt.records, &requests))
			t.Cleanup(func() {
				srv.Close()
			})

			logger := zerolog.Nop()
			client := printful.NewClient(srv.Client(), apiKey, &logger, printful.WithBaseURL(srv.URL))

			records, err := client.GetAll(context.TODO(), "sync/products", tt.limit)

			require.NoError(t, err, "shouldn't return error")
			assert.Equal(t, tt.wantRequests, atomic.LoadInt32(&requests), "should issue correct number of requests")
			require.Len(t, records, tt.records, "should accumulate all records")

			ids := lo.Map(records, func(record models.Record, _ int) string {
				return models.OwnerID(record["id"])
			})
			for ix, id := range ids {
				assert.Equalf(t, strconv.Itoa(ix), id, "record %d should keep page order without duplicates", ix)
			}
		})
	}
}

func TestUnitGetAllPropagatesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(func() {
		srv.Close()
	})

	logger := zerolog.Nop()
	client := printful.NewClient(srv.Client(), apiKey, &logger, printful.WithBaseURL(srv.URL))

	records, err := client.GetAll(context.TODO(), "sync/products", 20)

	require.ErrorIs(t, err, printful.ErrStatusNotOK, "should return status error")
	assert.Nil(t, records, "shouldn't return records")
}

// pagedHandler serves records numbered from 0 in pages driven by limit and offset query params.
func pagedHandler(t *testing.T, wantLimit, total, records int, requests *int32) http.Handler {
	return http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(requests, 1)

		limit, err := strconv.Atoi(req.URL.Query().Get("limit"))
		assert.NoError(t, err, "request should carry limit param")
		assert.Equal(t, wantLimit, limit, "request should carry configured limit")

		offset, err := strconv.Atoi(req.URL.Query().Get("offset"))
		assert.NoError(t, err, "request should carry offset param")

		page := make([]models.Record, 0, limit)
		for id := offset; id < offset+limit && id < records; id++ {
			page = append(page, models.Record{"id": id, "name": fmt.Sprintf("record %d", id)})
		}

		err = json.NewEncoder(wrt).Encode(map[string]any{
			"result": page,
			"paging": map[string]any{"total": total, "offset": offset, "limit": limit},
		})
		assert.NoError(t, err, "can't encode page")
	})
}
