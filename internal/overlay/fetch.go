package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"

	"coverserver/internal/domain"
)

const (
	maxSourceBytes  = 32 << 20
	maxSourcePixels = 64 << 20
)

// Fetcher downloads and decodes source bitmaps.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// NewFetcherWithClient uses the provided client as-is.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the bitmap at url and decodes it. Every failure wraps
// domain.ErrRetrieval.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrRetrieval, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: source returned status %d", domain.ErrRetrieval, resp.StatusCode)
	}
	return Decode(resp.Body)
}

// Decode reads a PNG, JPEG, GIF or WebP bitmap of at most 32 MiB. The
// header is checked first, and sources declaring more than 64Mi pixels are
// rejected before any pixel buffer is allocated.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", domain.ErrRetrieval, err)
	}
	if len(data) > maxSourceBytes {
		return nil, fmt.Errorf("%w: source exceeds %d bytes", domain.ErrRetrieval, maxSourceBytes)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image header: %w", domain.ErrRetrieval, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxSourcePixels {
		return nil, fmt.Errorf("%w: source dimensions %dx%d exceed the pixel limit", domain.ErrRetrieval, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrRetrieval, err)
	}
	return img, nil
}
