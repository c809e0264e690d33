package image

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"coverserver/internal/domain"
	"coverserver/internal/infra"
)

const (
	DefaultBaseURL = "https://pollinations.ai/p/"
	randomSeedMax  = 10000
)

// PollinationsOptions configures the Pollinations image client.
type PollinationsOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Rand       infra.Rand
	Log        zerolog.Logger
}

// PollinationsGenerator builds Pollinations image URLs and checks that the
// backend answers for them before handing them out. The bitmap itself is not
// downloaded here.
type PollinationsGenerator struct {
	baseURL string
	client  *http.Client
	rnd     infra.Rand
	log     zerolog.Logger
}

// NewPollinationsGenerator wires the client with defaults for empty options.
func NewPollinationsGenerator(opts PollinationsOptions) *PollinationsGenerator {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = infra.NewRand(0)
	}
	return &PollinationsGenerator{baseURL: base, client: client, rnd: rnd, log: opts.Log}
}

// BuildURL renders the request URL. A nil seed is replaced by a random one in
// [0, 10000).
func (g *PollinationsGenerator) BuildURL(prompt string, p Params) string {
	var seed int
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		seed = g.rnd.IntN(randomSeedMax)
		g.log.Debug().Int("seed", seed).Msg("generated random seed")
	}
	if p.Model == "" {
		p.Model = DefaultModel
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(p.Width))
	q.Set("height", strconv.Itoa(p.Height))
	q.Set("model", p.Model)
	q.Set("seed", strconv.Itoa(seed))
	q.Set("nologo", strconv.FormatBool(p.NoLogo))
	q.Set("private", strconv.FormatBool(p.Private))
	q.Set("enhance", strconv.FormatBool(p.Enhance))
	q.Set("safe", strconv.FormatBool(p.Safe))
	if neg := strings.TrimSpace(p.Negative); neg != "" {
		q.Set("negative", neg)
	}
	return g.baseURL + url.PathEscape(prompt) + "?" + q.Encode()
}

// GenerateURL fulfils the Generator interface.
func (g *PollinationsGenerator) GenerateURL(ctx context.Context, prompt string, p Params) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.Invalid("prompt must not be empty")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return "", domain.Invalid(fmt.Sprintf("invalid image size %dx%d", p.Width, p.Height))
	}
	target := g.BuildURL(prompt, p)
	g.log.Info().Str("url", truncate(target, 100)).Msg("generating image")

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrProviderFailure, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: image backend unreachable: %w", domain.ErrProviderFailure, err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: image backend returned status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	return target, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Generator = (*PollinationsGenerator)(nil)
