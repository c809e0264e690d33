package domain

// Category is one catalog entry used to steer prompt generation.
type Category struct {
	ID                  int      `json:"id" yaml:"id" toml:"id"`
	Name                string   `json:"name" yaml:"name" toml:"name"`
	Description         string   `json:"description" yaml:"description" toml:"description"`
	StyleGuideline      string   `json:"style_guideline" yaml:"style_guideline" toml:"style_guideline"`
	DescriptiveElements []string `json:"descriptive_elements,omitempty" yaml:"descriptive_elements,omitempty" toml:"descriptive_elements,omitempty"`
	StyleVariations     []string `json:"style_variations,omitempty" yaml:"style_variations,omitempty" toml:"style_variations,omitempty"`
}

// Elements returns the descriptive-element pool, falling back to the single
// description when no pool is configured.
func (c Category) Elements() []string {
	if len(c.DescriptiveElements) > 0 {
		return c.DescriptiveElements
	}
	if c.Description == "" {
		return nil
	}
	return []string{c.Description}
}

// Styles returns the style-variation pool, falling back to the style guideline.
func (c Category) Styles() []string {
	if len(c.StyleVariations) > 0 {
		return c.StyleVariations
	}
	if c.StyleGuideline == "" {
		return nil
	}
	return []string{c.StyleGuideline}
}

// CoverRequest is the JSON body accepted by every cover endpoint.
type CoverRequest struct {
	Title                string `json:"title"`
	CategoryName         string `json:"category_name"`
	CategoryID           *int   `json:"category_id,omitempty"`
	SubcategoryName      string `json:"subcategory_name,omitempty"`
	TertiaryCategoryName string `json:"tertiary_category_name,omitempty"`
}

// ImageRef is a single generated image in a JSON response.
type ImageRef struct {
	URL string `json:"url"`
}

// CoverResponse is returned by the URL-producing endpoints.
type CoverResponse struct {
	Status string     `json:"status"`
	Images []ImageRef `json:"images"`
}
