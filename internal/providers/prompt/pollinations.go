package prompt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"coverserver/internal/domain"
)

const (
	DefaultTextBaseURL = "https://text.pollinations.ai/"
	maxTextBytes       = 1 << 20
)

// PollinationsOptions configures the Pollinations text client.
type PollinationsOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        zerolog.Logger
}

// PollinationsWriter calls the Pollinations text endpoint with a GET request
// and returns the raw body.
type PollinationsWriter struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewPollinationsWriter(opts PollinationsOptions) *PollinationsWriter {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultTextBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &PollinationsWriter{baseURL: base, client: client, log: opts.Log}
}

// Write fulfils the Writer interface.
func (w *PollinationsWriter) Write(ctx context.Context, metaPrompt string, s Sampling) (string, error) {
	if err := ValidateTemperature(s.Temperature); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("seed", strconv.Itoa(s.Seed))
	q.Set("temperature", strconv.FormatFloat(s.Temperature, 'f', -1, 64))
	target := w.baseURL + url.PathEscape(metaPrompt) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrProviderFailure, err)
	}
	w.log.Debug().Int("seed", s.Seed).Str("temperature", fmt.Sprintf("%.2f", s.Temperature)).Msg("requesting prompt text")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error().Err(err).Msg("text backend request failed")
		return "", fmt.Errorf("%w: Error fetching from Pollinations AI: %w", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrProviderFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: Error fetching from Pollinations AI: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("%w: empty response from text backend", domain.ErrProviderFailure)
	}
	return text, nil
}

var _ Writer = (*PollinationsWriter)(nil)
