package source

import (
	"context"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

const taxCountriesEndpoint = "tax/countries"

// fetchTaxRates ingests tax rate countries, keeping vendor ids unchanged.
func (s *Source) fetchTaxRates(ctx context.Context) error {
	resp, err := s.api.Get(ctx, taxCountriesEndpoint)
	if err != nil {
		return fmt.Errorf("can't fetch tax rates: %w", err)
	}

	rates, err := resp.Records()
	if err != nil {
		return fmt.Errorf("can't fetch tax rates: %w", err)
	}

	return s.emit(ctx, models.KindTaxRate, rates)
}
