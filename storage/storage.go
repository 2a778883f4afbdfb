package storage

import "context"

// Store persists one document of type T. Every call runs fn under the
// store's lock against a freshly loaded copy.
type Store[T any] interface {
	// With loads the document and calls fn read-only; changes are dropped.
	With(ctx context.Context, fn func(*T) error) error
	// Update loads the document, calls fn, and writes it back when fn
	// returns nil.
	Update(ctx context.Context, fn func(*T) error) error
}

// Initer is implemented by documents that need defaults filled in after
// loading (nil maps, zero-length tables).
type Initer interface {
	Init()
}
