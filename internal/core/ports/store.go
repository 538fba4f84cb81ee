package ports

import "context"

// Store persists one record collection as a whole.
//
// Load returns the full collection; Save replaces it. There is no locking between
// a Load and the following Save, so concurrent writers may overwrite each other.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
}
