// Package catalog holds the read-only category table used to validate cover
// requests and to steer prompt generation.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"coverserver/internal/domain"
)

// Catalog maps category ids to their records. It is immutable after
// construction and safe for concurrent readers.
type Catalog struct {
	byID map[int]domain.Category
	ids  []int
}

// New indexes the given categories. Ids must be unique and names non-empty.
func New(categories []domain.Category) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]domain.Category, len(categories))}
	for _, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("catalog: category %d has no name", cat.ID)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate category id %d", cat.ID)
		}
		c.byID[cat.ID] = cat
		c.ids = append(c.ids, cat.ID)
	}
	if len(c.ids) == 0 {
		return nil, fmt.Errorf("catalog: no categories")
	}
	sort.Ints(c.ids)
	return c, nil
}

// FromRepository loads every category from repo once and indexes it.
func FromRepository(ctx context.Context, repo domain.CategoryRepository) (*Catalog, error) {
	categories, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load from repository: %w", err)
	}
	return New(categories)
}

// Lookup returns the category stored under id.
func (c *Catalog) Lookup(id int) (domain.Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Validate checks that id exists and that its stored name equals name exactly.
// Both keys must agree; a mismatch is reported as a domain.ValidationError
// that names the id and the submitted name.
func (c *Catalog) Validate(id int, name string) (domain.Category, error) {
	cat, ok := c.byID[id]
	if !ok || cat.Name != name {
		return domain.Category{}, domain.Invalid(fmt.Sprintf("Category ID %d does not match name '%s' or is invalid.", id, name))
	}
	return cat, nil
}

// All returns the categories ordered by id.
func (c *Catalog) All() []domain.Category {
	out := make([]domain.Category, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of categories.
func (c *Catalog) Len() int {
	return len(c.ids)
}
