package source

import (
	"context"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/images"
	"github.com/MichalMitros/printful-source/internal/platform/models"
	"github.com/MichalMitros/printful-source/internal/platform/sink"
	"github.com/MichalMitros/printful-source/internal/printful"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name API --filename api.go
//go:generate mockery --name ImageFetcher --filename imagefetcher.go

// API calls Printful API endpoints.
type API interface {
	// Get fetches a single endpoint and returns the decoded envelope.
	Get(ctx context.Context, endpoint string) (*printful.Response, error)
	// GetAll fetches all pages of a paginated endpoint.
	GetAll(ctx context.Context, endpoint string, limit int) ([]models.Record, error)
}

// ImageFetcher materializes remote images as local files.
type ImageFetcher interface {
	// EnsureDirectory prepares the image directory.
	EnsureDirectory() error
	// Download resolves imageURL to a local path, fail-open.
	Download(ctx context.Context, ownerID string, imageURL string) images.Result
}

// Options is runtime configuration of Source.
type Options struct {
	// TypeName prefixes every collection name.
	TypeName string
	// ObjectTypes lists resource kinds to ingest.
	ObjectTypes []string
	// PaginationLimit is the page size used for paginated endpoints.
	PaginationLimit int
	// DownloadFiles enables image materialization.
	DownloadFiles bool
	// DownloadProductThumbnail enables per-product thumbnail downloads.
	DownloadProductThumbnail bool
	// DownloadProductImages enables per-variant file downloads.
	DownloadProductImages bool
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		TypeName: "Printful",
		ObjectTypes: []string{
			string(models.KindSyncProduct),
			string(models.KindWarehouseProduct),
			string(models.KindCountry),
			string(models.KindTaxRate),
		},
		PaginationLimit:          20,
		DownloadFiles:            false,
		DownloadProductThumbnail: true,
		DownloadProductImages:    false,
	}
}

type fetchFunc func(ctx context.Context) error

// Source ingests Printful catalog resources into a node sink.
type Source struct {
	api      API
	images   ImageFetcher
	sink     sink.Sink
	opts     Options
	logger   *zerolog.Logger
	fetchers map[models.ResourceKind]fetchFunc
}

// NewSource returns new Source emitting normalized records into nodeSink.
func NewSource(api API, imageFetcher ImageFetcher, nodeSink sink.Sink, opts Options, logger *zerolog.Logger) *Source {
	src := &Source{
		api:    api,
		images: imageFetcher,
		sink:   nodeSink,
		opts:   opts,
		logger: logger,
	}

	src.fetchers = map[models.ResourceKind]fetchFunc{
		models.KindSyncProduct:      src.fetchSyncProducts,
		models.KindWarehouseProduct: src.fetchWarehouseProducts,
		models.KindCountry:          src.fetchCountries,
		models.KindTaxRate:          src.fetchTaxRates,
	}

	return src
}

// Fetch ingests all configured resource kinds.
func (s *Source) Fetch(ctx context.Context) error {
	return s.FetchTypes(ctx, s.opts.ObjectTypes)
}

// FetchTypes ingests the requested resource kinds concurrently.
// Unknown kinds are logged and skipped. Fetchers run independently, one
// fetcher's failure doesn't cancel the others; the first failure is returned
// after all fetchers settle, side effects of the others stand.
func (s *Source) FetchTypes(ctx context.Context, objectTypes []string) error {
	if s.opts.DownloadFiles {
		if err := s.images.EnsureDirectory(); err != nil {
			return fmt.Errorf("can't prepare image directory: %w", err)
		}
	}

	group := errgroup.Group{}

	for _, objectType := range objectTypes {
		fetch, ok := s.fetchers[models.ResourceKind(objectType)]
		if !ok {
			s.logger.Error().Msgf("unknown object type %s", objectType)
			continue
		}

		group.Go(func() error {
			return fetch(ctx)
		})
	}

	return group.Wait()
}

// emit normalizes records with slugs and adds them one by one to the kind's collection.
func (s *Source) emit(ctx context.Context, kind models.ResourceKind, records []models.Record) error {
	collection, err := s.sink.AddCollection(ctx, s.opts.TypeName+string(kind))
	if err != nil {
		return fmt.Errorf("can't add %s collection: %w", kind, err)
	}

	for _, record := range records {
		record.ApplySlug()

		s.logger.Debug().Msgf("add node %s %s", kind, models.OwnerID(record["id"]))

		if err := collection.AddNode(ctx, record); err != nil {
			return fmt.Errorf("can't add %s node: %w", kind, err)
		}
	}

	return nil
}
