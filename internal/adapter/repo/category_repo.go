package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"coverserver/internal/domain"
	"coverserver/internal/sqlinline"
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CategoryRepositoryPG implements domain.CategoryRepository using PostgreSQL.
type CategoryRepositoryPG struct {
	pool Querier
}

// NewCategoryRepository constructs a new category repository instance.
func NewCategoryRepository(pool Querier) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{pool: pool}
}

// EnsureSchema creates the categories table when it is missing.
func (r *CategoryRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, sqlinline.QCreateCategories); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}
	return nil
}

// ListAll returns every category ordered by id.
func (r *CategoryRepositoryPG) ListAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QListCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.StyleGuideline, &c.DescriptiveElements, &c.StyleVariations); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Upsert inserts or replaces each category by id and returns how many rows
// were written.
func (r *CategoryRepositoryPG) Upsert(ctx context.Context, categories []domain.Category) (int, error) {
	written := 0
	for _, c := range categories {
		_, err := r.pool.Exec(ctx, sqlinline.QUpsertCategory,
			c.ID, c.Name, c.Description, c.StyleGuideline, nonNil(c.DescriptiveElements), nonNil(c.StyleVariations))
		if err != nil {
			return written, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		written++
	}
	return written, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ domain.CategoryRepository = (*CategoryRepositoryPG)(nil)
