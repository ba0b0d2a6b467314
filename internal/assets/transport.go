// Package assets moves images into the CMS: it downloads a remote image or
// takes an in-memory buffer, sniffs the true image type and uploads the
// bytes to the asset endpoint.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
)

const (
	defaultFetchTimeout = 30 * time.Second
	userAgent           = "article-publisher/1.0"

	// maxImageBytes bounds one in-memory download.
	maxImageBytes = 32 << 20
)

// Source is either a remote URL or an in-memory buffer with a declared
// filename and MIME hint.
type Source struct {
	URL      string
	Data     []byte
	Filename string
	MIME     string
}

// Uploader stores one binary buffer in the CMS asset store.
type Uploader interface {
	UploadAsset(ctx context.Context, filename, mimeType string, data []byte) (*domain.UploadedAsset, error)
}

type Transport struct {
	uploader Uploader
	client   *http.Client
}

type TransportOption func(*Transport)

// WithFetchTimeout overrides the per-image download timeout.
func WithFetchTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		t.client.Timeout = d
	}
}

func NewTransport(uploader Uploader, opts ...TransportOption) *Transport {
	t := &Transport{
		uploader: uploader,
		client:   &http.Client{Timeout: defaultFetchTimeout},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// FetchAndHost re-hosts one image into the CMS. Errors from the fetch or the
// upload are returned for the caller to log and count; they are expected and
// never abort a submission on their own.
func (t *Transport) FetchAndHost(ctx context.Context, src Source) (*domain.UploadedAsset, error) {
	data := src.Data
	declared := src.MIME

	if src.URL != "" {
		fetched, contentType, err := t.fetch(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		data = fetched
		declared = contentType
	}

	mimeType, ext := DetectImageType(data, declared)

	filename := src.Filename
	if filename == "" {
		filename = "image"
	}
	if path.Ext(filename) == "" {
		filename = filename + "." + ext
	}

	asset, err := t.uploader.UploadAsset(ctx, filename, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("hosting %s: %w", filename, err)
	}

	return asset, nil
}

func (t *Transport) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading image body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
