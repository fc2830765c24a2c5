package source

import (
	"context"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

const warehouseProductsEndpoint = "warehouse/products"

// fetchWarehouseProducts ingests warehouse products.
// Warehouse thumbnails are not materialized even when downloads are enabled.
func (s *Source) fetchWarehouseProducts(ctx context.Context) error {
	products, err := s.api.GetAll(ctx, warehouseProductsEndpoint, s.opts.PaginationLimit)
	if err != nil {
		return fmt.Errorf("can't fetch warehouse products: %w", err)
	}

	return s.emit(ctx, models.KindWarehouseProduct, products)
}
