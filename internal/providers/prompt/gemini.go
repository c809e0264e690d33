package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"coverserver/internal/domain"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiOptions configures the Gemini writer.
type GeminiOptions struct {
	APIKey        string
	Model         string
	ClientOptions []option.ClientOption
	Log           zerolog.Logger
}

// GeminiWriter generates prompt text with a Gemini model. The API has no
// seed parameter, so Sampling.Seed is only logged.
type GeminiWriter struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiWriter opens a Gemini client. Callers must Close it.
func NewGeminiWriter(ctx context.Context, opts GeminiOptions) (*GeminiWriter, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	clientOpts := append([]option.ClientOption{option.WithAPIKey(key)}, opts.ClientOptions...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiWriter{client: client, model: model, log: opts.Log}, nil
}

// Write fulfils the Writer interface.
func (g *GeminiWriter) Write(ctx context.Context, metaPrompt string, s Sampling) (string, error) {
	if err := ValidateTemperature(s.Temperature); err != nil {
		return "", err
	}
	if g.client == nil {
		return "", fmt.Errorf("%w: gemini client not configured", domain.ErrProviderFailure)
	}
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(s.Temperature))
	g.log.Debug().Str("model", g.model).Int("seed", s.Seed).Msg("requesting prompt text")

	resp, err := model.GenerateContent(ctx, genai.Text(metaPrompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %w", domain.ErrProviderFailure, err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned from Gemini", domain.ErrProviderFailure)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content returned from Gemini", domain.ErrProviderFailure)
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: unexpected response format from Gemini", domain.ErrProviderFailure)
	}
	return text, nil
}

// Close releases the underlying client.
func (g *GeminiWriter) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

var _ Writer = (*GeminiWriter)(nil)
