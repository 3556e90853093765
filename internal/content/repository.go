package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository struct {
	items map[string]Item
	mu    sync.RWMutex
}

// NewMemoryRepository creates a repository holding the given items.
func NewMemoryRepository(items ...Item) *MemoryRepository {
	r := &MemoryRepository{items: make(map[string]Item, len(items))}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(Item) bool { return true }), nil
}

func (r *MemoryRepository) ListByAgeGroup(_ context.Context, ageGroup string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(it Item) bool { return SameAgeGroup(it.AgeGroup, ageGroup) }), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return it, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, items ...Item) error {
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("content id is required")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		r.items[it.ID] = it
	}
	return nil
}

// HealthCheck always succeeds.
func (r *MemoryRepository) HealthCheck(_ context.Context) error {
	return nil
}

// sorted must be called with r.mu held.
func (r *MemoryRepository) sorted(keep func(Item) bool) []Item {
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })
	return out
}
