package printful

import (
	"context"
	"strconv"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

// GetAll fetches all records from a paginated endpoint.
// Pages of size limit are requested strictly in offset order. Pagination stops
// when a page comes back shorter than limit or when the server-reported total
// matches the number of accumulated records, whichever signal comes first.
// Either signal alone is sufficient, which guards against endpoints reporting
// totals inconsistent with actual page sizes.
func (c *Client) GetAll(ctx context.Context, endpoint string, limit int) ([]models.Record, error) {
	var records []models.Record

	for offset := 0; ; offset += limit {
		page := endpoint + "?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)

		resp, err := c.Get(ctx, page)
		if err != nil {
			return nil, err
		}

		result, err := resp.Records()
		if err != nil {
			return nil, err
		}
		records = append(records, result...)

		if len(result) < limit {
			return records, nil
		}
		if resp.Paging != nil && resp.Paging.Total == len(records) {
			return records, nil
		}
	}
}
