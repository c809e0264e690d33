package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"coverserver/internal/infra"
)

// Hierarchy names a document's category path and title.
type Hierarchy struct {
	Category    string
	Subcategory string
	Tertiary    string
	Title       string
}

// MetaPrompt asks the text backend for a text-free cover prompt that
// reflects the hierarchy.
func MetaPrompt(h Hierarchy) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a detailed text-to-image prompt for a document cover image based on the following: Category: %s, Subcategory: %s, Tertiary Category: %s, Document Title: %s. ",
		h.Category, h.Subcategory, h.Tertiary, h.Title)
	sb.WriteString("The image must visually represent the category hierarchy in a creative, abstract, or symbolic way. ")
	sb.WriteString("Ensure the prompt specifies that the image contains absolutely no text, letters, or words. ")
	sb.WriteString("The prompt should describe a visually appealing UI-like design for the cover, such as layouts, colors, icons, or elements that evoke the themes of the categories without any textual elements. ")
	sb.WriteString("Make the description vivid and suitable for an AI image generator like Stable Diffusion.")
	return sb.String()
}

// Composer draws sampling parameters and runs the meta-prompt through a
// Writer.
type Composer struct {
	writer Writer
	rnd    infra.Rand
	log    zerolog.Logger
}

// NewComposer wires a Writer with the random source used for sampling.
func NewComposer(w Writer, rnd infra.Rand, log zerolog.Logger) *Composer {
	if rnd == nil {
		rnd = infra.NewRand(0)
	}
	return &Composer{writer: w, rnd: rnd, log: log}
}

// CoverPrompt returns a generated image prompt for h.
func (c *Composer) CoverPrompt(ctx context.Context, h Hierarchy) (string, error) {
	if c == nil || c.writer == nil {
		return "", fmt.Errorf("prompt writer not configured")
	}
	s := DrawSampling(c.rnd)
	c.log.Debug().
		Str("category", h.Category).
		Str("subcategory", h.Subcategory).
		Str("tertiary_category", h.Tertiary).
		Str("title", h.Title).
		Int("seed", s.Seed).
		Float64("temperature", s.Temperature).
		Msg("generating cover prompt")
	return c.writer.Write(ctx, MetaPrompt(h), s)
}
