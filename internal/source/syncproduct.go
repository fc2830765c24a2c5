package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/images"
	"github.com/MichalMitros/printful-source/internal/platform/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const syncProductsEndpoint = "sync/products"

// syncDetail is the payload of a sync product detail response.
type syncDetail struct {
	SyncProduct  models.Record   `json:"sync_product"`
	SyncVariants []models.Record `json:"sync_variants"`
}

// fetchSyncProducts ingests sync products with their variants.
// The product list is paginated, then every product's detail is fetched in
// parallel and recombined by index. Variant retail prices are coerced to
// numbers and, when enabled, thumbnails and variant file images are
// materialized before emission.
func (s *Source) fetchSyncProducts(ctx context.Context) error {
	items, err := s.api.GetAll(ctx, syncProductsEndpoint, s.opts.PaginationLimit)
	if err != nil {
		return fmt.Errorf("can't fetch sync products: %w", err)
	}

	products := make([]models.Record, len(items))
	group, groupCtx := errgroup.WithContext(ctx)

	for ix, item := range items {
		ix, item := ix, item
		group.Go(func() error {
			product, err := s.fetchSyncProductDetail(groupCtx, models.OwnerID(item["id"]))
			if err != nil {
				return err
			}
			products[ix] = product
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("can't fetch sync product details: %w", err)
	}

	if s.opts.DownloadFiles {
		s.downloadImages(ctx, products)
	}

	return s.emit(ctx, models.KindSyncProduct, products)
}

// fetchSyncProductDetail fetches one product with its variants.
func (s *Source) fetchSyncProductDetail(ctx context.Context, id string) (models.Record, error) {
	resp, err := s.api.Get(ctx, syncProductsEndpoint+"/"+id)
	if err != nil {
		return nil, err
	}

	var detail syncDetail
	if err := json.Unmarshal(resp.Result, &detail); err != nil {
		return nil, fmt.Errorf("can't decode sync product %s: %w", id, err)
	}

	product := detail.SyncProduct
	if product == nil {
		product = models.Record{}
	}
	product["variants"] = coerceVariantPrices(detail.SyncVariants)

	return product, nil
}

// coerceVariantPrices converts each variant's retail_price to a number.
// Unparsable prices are left as delivered by the vendor.
func coerceVariantPrices(variants []models.Record) []models.Record {
	return lo.Map(variants, func(variant models.Record, _ int) models.Record {
		if price, ok := models.Float(variant["retail_price"]); ok {
			variant["retail_price"] = price
		}
		return variant
	})
}

// downloadImages materializes product thumbnails and variant file images.
// Products are processed concurrently; within one product the variant files
// are downloaded strictly one after another to bound in-flight requests
// against the vendor. Downloads are fail-open, so this never fails the fetch.
func (s *Source) downloadImages(ctx context.Context, products []models.Record) {
	group := errgroup.Group{}

	for _, product := range products {
		product := product
		group.Go(func() error {
			if s.opts.DownloadProductThumbnail {
				s.downloadThumbnail(ctx, product)
			}
			if s.opts.DownloadProductImages {
				s.downloadVariantFiles(ctx, product)
			}
			return nil
		})
	}

	_ = group.Wait()
}

func (s *Source) downloadThumbnail(ctx context.Context, product models.Record) {
	thumbnailURL, ok := product["thumbnail_url"].(string)
	if !ok || thumbnailURL == "" {
		return
	}

	result := s.images.Download(ctx, models.OwnerID(product["id"]), thumbnailURL)
	if result.Status != images.StatusSkipped {
		product["thumbnail_img"] = result.Path
	}
}

func (s *Source) downloadVariantFiles(ctx context.Context, product models.Record) {
	variants, ok := product["variants"].([]models.Record)
	if !ok {
		return
	}

	for _, variant := range variants {
		files, ok := variant["files"].([]any)
		if !ok {
			continue
		}

		for _, rawFile := range files {
			file, ok := models.AsRecord(rawFile)
			if !ok {
				continue
			}

			ownerID := models.OwnerID(file["id"])

			if thumbnailURL, ok := file["thumbnail_url"].(string); ok {
				if result := s.images.Download(ctx, ownerID, thumbnailURL); result.Status != images.StatusSkipped {
					file["thumbnail_img"] = result.Path
				}
			}

			if previewURL, ok := file["preview_url"].(string); ok {
				if result := s.images.Download(ctx, ownerID, previewURL); result.Status != images.StatusSkipped {
					file["preview_img"] = result.Path
				}
			}
		}
	}
}
