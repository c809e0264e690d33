// Package prompt asks a text-generation backend to write image prompts for
// categories that are not in the catalog.
package prompt

import (
	"context"
	"fmt"

	"coverserver/internal/domain"
	"coverserver/internal/infra"
)

const (
	MinTemperature = 0.0
	MaxTemperature = 3.0

	sampledTemperatureMin  = 0.7
	sampledTemperatureSpan = 0.5
	seedMax                = 1000000
)

// Sampling controls the randomness of one generation.
type Sampling struct {
	Seed        int
	Temperature float64
}

// Writer turns a meta-prompt into generated text.
type Writer interface {
	Write(ctx context.Context, metaPrompt string, s Sampling) (string, error)
}

// DrawSampling picks a temperature in [0.7, 1.2) and a seed in [1, 1000000].
func DrawSampling(rnd infra.Rand) Sampling {
	return Sampling{
		Seed:        1 + rnd.IntN(seedMax),
		Temperature: sampledTemperatureMin + sampledTemperatureSpan*rnd.Float64(),
	}
}

// ValidateTemperature rejects temperatures outside [0, 3].
func ValidateTemperature(t float64) error {
	if t < MinTemperature || t > MaxTemperature {
		return domain.Invalid(fmt.Sprintf("Temperature must be between %.1f and %.1f", MinTemperature, MaxTemperature))
	}
	return nil
}
