package image

import "context"

const (
	DefaultModel  = "flux"
	DefaultWidth  = 864
	DefaultHeight = 1152

	LegacyWidth  = 620
	LegacyHeight = 400
)

// Params are the query parameters understood by the image backend.
type Params struct {
	Width    int
	Height   int
	Model    string
	Seed     *int
	NoLogo   bool
	Private  bool
	Enhance  bool
	Safe     bool
	Negative string
}

// DefaultParams returns the parameters every cover request starts from.
func DefaultParams() Params {
	return Params{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Model:   DefaultModel,
		NoLogo:  true,
		Enhance: true,
		Safe:    true,
	}
}

// Generator turns a prompt into a URL referencing the rendered bitmap.
type Generator interface {
	GenerateURL(ctx context.Context, prompt string, p Params) (string, error)
}
