package printful

import (
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

// Response is the envelope wrapping every Printful API payload.
type Response struct {
	Paging *Paging         `json:"paging"`
	Result json.RawMessage `json:"result"`
}

// Paging is pagination metadata reported by list endpoints.
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Records decodes the result payload as a list of records.
func (r *Response) Records() ([]models.Record, error) {
	var records []models.Record
	if err := json.Unmarshal(r.Result, &records); err != nil {
		return nil, fmt.Errorf("can't decode result records: %w", err)
	}

	return records, nil
}

// Record decodes the result payload as a single record.
func (r *Response) Record() (models.Record, error) {
	var record models.Record
	if err := json.Unmarshal(r.Result, &record); err != nil {
		return nil, fmt.Errorf("can't decode result record: %w", err)
	}

	return record, nil
}
