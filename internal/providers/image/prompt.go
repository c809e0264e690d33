package image

import (
	"fmt"
	"strings"

	"coverserver/internal/domain"
	"coverserver/internal/infra"
)

// Variant selects the prompt template.
type Variant string

const (
	// VariantWithText asks the backend to render the title and subtitle.
	VariantWithText Variant = "with_text"
	// VariantNoText forbids text so the caption can be overlaid locally.
	VariantNoText Variant = "no_text"
	// VariantLegacy is the first-generation 260x372 cover prompt.
	VariantLegacy Variant = "legacy"
)

// ParseVariant maps free-form input onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantWithText, VariantNoText, VariantLegacy:
		return v, nil
	case "":
		return VariantWithText, nil
	default:
		return "", domain.Invalid(fmt.Sprintf("unknown prompt variant %q", s))
	}
}

// PromptBuilder renders category-driven prompts for the image backend.
type PromptBuilder struct {
	rnd infra.Rand
}

// NewPromptBuilder returns a builder drawing pool entries from rnd.
func NewPromptBuilder(rnd infra.Rand) *PromptBuilder {
	if rnd == nil {
		rnd = infra.NewRand(0)
	}
	return &PromptBuilder{rnd: rnd}
}

// Build renders the prompt for variant. The subtitle is the category label.
func (b *PromptBuilder) Build(v Variant, c domain.Category, title, subtitle string) string {
	switch v {
	case VariantNoText:
		return b.noText(c, subtitle)
	case VariantLegacy:
		return legacy(c, title, subtitle)
	default:
		return b.withText(c, title, subtitle)
	}
}

func (b *PromptBuilder) withText(c domain.Category, title, subtitle string) string {
	element, style := b.pick(c)
	return strings.Join([]string{
		"Professional document infographic thumbnail.",
		"",
		fmt.Sprintf("**Main Title:** '%s'", title),
		fmt.Sprintf("**Subtitle:** '%s'", subtitle),
		"(Both titles in bold, black, clean sans-serif font, centered at the top of the image. Text must be perfectly rendered, fully visible, no misspellings.)",
		"",
		fmt.Sprintf("**visually represented by %s", element),
		"",
		fmt.Sprintf("**Style & Composition:** %s", style),
	}, "\n")
}

func (b *PromptBuilder) noText(c domain.Category, subtitle string) string {
	element, style := b.pick(c)
	return strings.Join([]string{
		"Professional document cover illustration.",
		"Ultra-high-resolution, vector art quality, crisp details, polished, corporate aesthetic.",
		"",
		fmt.Sprintf("**Visual Subject:** %s, visually represented by %s", subtitle, element),
		"",
		fmt.Sprintf("**Style & Composition:** %s", style),
		"Ensure a clear, impactful, and professional design. The composition should be central and well-balanced, avoiding scattered elements, with no text overlay.",
	}, "\n")
}

func legacy(c domain.Category, title, subtitle string) string {
	return strings.Join([]string{
		"Illustration for a professional document cover with a size of 260x372 pixels, designed with high-resolution, crisp details, and a polished, professional appearance.",
		fmt.Sprintf("Include the text '%s' in black, bold, clean sans-serif font, centered at the top of the image with a minimal font size-18 (adjusted to fit within 230 pixels width), ensuring no overflow and full visibility.", title),
		fmt.Sprintf("Below the title, add the text '%s' in a smaller, clean sans-serif font in black, centered, with a font size-12 reduced to fit neatly under the title without overlapping or exceeding the 230 pixels width.", subtitle),
		fmt.Sprintf("The main subject is based on the %s category, visually represented by %s.", subtitle, c.Description),
		fmt.Sprintf("Style: %s, clear and organized composition, high-resolution, professional design with a sleek, corporate aesthetic and enhanced clarity.", c.StyleGuideline),
	}, "\n")
}

// pick draws one descriptive element and one style variation uniformly.
func (b *PromptBuilder) pick(c domain.Category) (string, string) {
	return choose(b.rnd, c.Elements()), choose(b.rnd, c.Styles())
}

func choose(rnd infra.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rnd.IntN(len(pool))]
}
