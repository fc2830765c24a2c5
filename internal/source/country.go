package source

import (
	"context"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

const countriesEndpoint = "countries"

// fetchCountries ingests shipping countries.
// Countries carry no numeric id, so the ISO code becomes the node id.
func (s *Source) fetchCountries(ctx context.Context) error {
	resp, err := s.api.Get(ctx, countriesEndpoint)
	if err != nil {
		return fmt.Errorf("can't fetch countries: %w", err)
	}

	countries, err := resp.Records()
	if err != nil {
		return fmt.Errorf("can't fetch countries: %w", err)
	}

	for _, country := range countries {
		country["id"] = country["code"]
	}

	return s.emit(ctx, models.KindCountry, countries)
}
