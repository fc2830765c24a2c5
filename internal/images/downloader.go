package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Status describes how a download request was resolved.
type Status int

// Download resolutions.
const (
	// StatusSkipped means no URL was provided, nothing was resolved.
	StatusSkipped Status = iota
	// StatusDownloaded means the file was fetched and written to disk.
	StatusDownloaded
	// StatusCached means the file was already on disk and was not fetched again.
	StatusCached
	// StatusFailed means fetching failed. Result.Path still holds the intended
	// target path, but no file exists there.
	StatusFailed
)

// Result is the outcome of a single download request.
type Result struct {
	Path   string
	Status Status
}

// Downloader materializes remote images under a local directory.
// Files are keyed by owner id and URL basename, never re-fetched once present
// and never considered stale. Failures are logged and resolved fail-open with
// the intended path, so callers always get a usable path value back.
type Downloader struct {
	client *http.Client
	dir    string
	logger *zerolog.Logger
}

// NewDownloader returns new Downloader writing into dir.
func NewDownloader(client *http.Client, dir string, logger *zerolog.Logger) *Downloader {
	return &Downloader{
		client: client,
		dir:    dir,
		logger: logger,
	}
}

// EnsureDirectory creates the image directory if it doesn't exist yet.
func (d *Downloader) EnsureDirectory() error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("can't create image directory: %w", err)
	}

	return nil
}

// Download fetches imageURL into the image directory and returns the local path.
// An empty URL resolves to StatusSkipped. An already present file resolves to
// StatusCached without any network call. A transport failure removes the
// partial file and still resolves with the target path (StatusFailed).
func (d *Downloader) Download(ctx context.Context, ownerID string, imageURL string) Result {
	if imageURL == "" {
		return Result{Status: StatusSkipped}
	}

	filename := targetFilename(ownerID, imageURL)
	path := filepath.Join(d.dir, filename)

	if _, err := os.Stat(path); err == nil {
		d.logger.Debug().Msgf("image %s already downloaded", filename)
		return Result{Path: path, Status: StatusCached}
	}

	d.logger.Debug().Msgf("downloading %s", imageURL)

	if err := d.fetch(ctx, imageURL, path); err != nil {
		d.logger.Error().
			Err(err).
			Str("url", imageURL).
			Msgf("can't download image %s", filename)
		return Result{Path: path, Status: StatusFailed}
	}

	return Result{Path: path, Status: StatusDownloaded}
}

func (d *Downloader) fetch(ctx context.Context, imageURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("can't build http request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("can't get http response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response status is %s", resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create image file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		d.removePartial(path)
		return fmt.Errorf("can't write image file: %w", err)
	}

	if err := file.Close(); err != nil {
		d.removePartial(path)
		return fmt.Errorf("can't close image file: %w", err)
	}

	return nil
}

func (d *Downloader) removePartial(path string) {
	if err := os.Remove(path); err != nil {
		d.logger.Error().
			Err(err).
			Msgf("can't remove partial file %s", path)
		return
	}
	d.logger.Debug().Msgf("removed partial file %s", path)
}

// targetFilename derives the deterministic local filename for imageURL,
// the lowercased URL basename with the query string stripped, prefixed by owner id.
func targetFilename(ownerID, imageURL string) string {
	base := imageURL
	if parsed, err := url.Parse(imageURL); err == nil {
		base = parsed.Path
	}

	if ix := strings.LastIndex(base, "/"); ix >= 0 {
		base = base[ix+1:]
	}
	base, _, _ = strings.Cut(base, "?")

	return ownerID + "_" + strings.ToLower(base)
}
