package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MichalMitros/printful-source/internal/images"
	"github.com/MichalMitros/printful-source/internal/platform/sink/sinktest"
	"github.com/MichalMitros/printful-source/internal/printful"
	"github.com/MichalMitros/printful-source/internal/source"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImages records download requests and resolves them without touching disk.
type fakeImages struct {
	mu      sync.Mutex
	ensured bool
	calls   []string
}

func (f *fakeImages) EnsureDirectory() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = true

	return nil
}

func (f *fakeImages) Download(_ context.Context, ownerID string, imageURL string) images.Result {
	if imageURL == "" {
		return images.Result{Status: images.StatusSkipped}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ownerID+" "+imageURL)

	return images.Result{
		Path:   "printful_images/" + ownerID,
		Status: images.StatusDownloaded,
	}
}

func (f *fakeImages) downloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

// newTestSource builds a Source backed by a vendor test server and an in-memory sink.
func newTestSource(t *testing.T, handler http.Handler, opts source.Options) (*source.Source, *sinktest.Memory, *fakeImages) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
	})

	logger := zerolog.Nop()
	client := printful.NewClient(srv.Client(), "test-api-key", &logger, printful.WithBaseURL(srv.URL))
	nodes := sinktest.NewMemory()
	imgs := &fakeImages{}

	return source.NewSource(client, imgs, nodes, opts, &logger), nodes, imgs
}

func TestUnitFetchSkipsUnknownObjectType(t *testing.T) {
	opts := source.DefaultOptions()
	opts.ObjectTypes = []string{"Bogus"}

	src, nodes, _ := newTestSource(t, http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		t.Errorf("unexpected request to %s", req.URL.Path)
	}), opts)

	err := src.Fetch(context.TODO())

	require.NoError(t, err, "unknown object type shouldn't fail the run")
	assert.Empty(t, nodes.Collections(), "shouldn't register any collection")
}

func TestUnitFetchIsolatesFetcherFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/countries", func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/tax/countries", func(wrt http.ResponseWriter, _ *http.Request) {
		_, _ = wrt.Write([]byte(`{"result":[{"id":1,"name":"United States"}]}`))
	})

	opts := source.DefaultOptions()
	opts.ObjectTypes = []string{"Country", "TaxRate"}

	src, nodes, _ := newTestSource(t, mux, opts)

	err := src.Fetch(context.TODO())

	require.ErrorIs(t, err, printful.ErrStatusNotOK, "should surface the failed fetcher's error")
	assert.Len(t, nodes.Nodes("PrintfulTaxRate"), 1, "independent fetcher's records should stand")
	assert.Empty(t, nodes.Nodes("PrintfulCountry"), "failed fetcher shouldn't emit records")
}

func TestUnitFetchPreparesImageDirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/countries", func(wrt http.ResponseWriter, _ *http.Request) {
		_, _ = wrt.Write([]byte(`{"result":[]}`))
	})

	tests := map[string]struct {
		downloadFiles bool
		wantEnsured   bool
	}{
		"downloads enabled":  {downloadFiles: true, wantEnsured: true},
		"downloads disabled": {downloadFiles: false, wantEnsured: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := source.DefaultOptions()
			opts.ObjectTypes = []string{"Country"}
			opts.DownloadFiles = tt.downloadFiles

			src, _, imgs := newTestSource(t, mux, opts)

			require.NoError(t, src.Fetch(context.TODO()), "shouldn't return error")
			assert.Equal(t, tt.wantEnsured, imgs.ensured, "should prepare directory only when downloads are enabled")
		})
	}
}
