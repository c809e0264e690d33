package domain

import "context"

// CategoryRepository loads catalog entries from an external store.
type CategoryRepository interface {
	ListAll(ctx context.Context) ([]Category, error)
}
