package operator

import "context"

// Store resolves shareable-link slugs to operators. The persistence
// service owns the slug lifecycle; the core only reads.
type Store interface {
	FindBySlug(ctx context.Context, slug string) (Operator, bool)
}

// MemoryStore implements Store with an in-memory slice, suitable for
// development and tests.
type MemoryStore struct {
	items []Operator
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied operators.
func NewMemoryStore(items []Operator) *MemoryStore {
	return &MemoryStore{items: append([]Operator(nil), items...)}
}

// FindBySlug looks up an operator by link slug.
func (s *MemoryStore) FindBySlug(_ context.Context, slug string) (Operator, bool) {
	for _, item := range s.items {
		if item.Slug == slug {
			return item, true
		}
	}
	return Operator{}, false
}
