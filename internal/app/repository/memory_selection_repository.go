package repository

import (
	"context"
	"sync"
)

// memorySelectionRepository keeps selections in process memory. Used when no
// Redis is configured (single-instance deployments) and by tests.
type memorySelectionRepository struct {
	mu   sync.RWMutex
	sets map[uint]map[uint]struct{}
}

func NewMemorySelectionRepository() SelectionRepository {
	return &memorySelectionRepository{
		sets: make(map[uint]map[uint]struct{}),
	}
}

func (r *memorySelectionRepository) Toggle(_ context.Context, userID, productID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[userID]
	if !ok {
		set = make(map[uint]struct{})
		r.sets[userID] = set
	}

	if _, selected := set[productID]; selected {
		delete(set, productID)
		return false, nil
	}
	set[productID] = struct{}{}
	return true, nil
}

func (r *memorySelectionRepository) Replace(_ context.Context, userID uint, productIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		set[id] = struct{}{}
	}
	r.sets[userID] = set
	return nil
}

func (r *memorySelectionRepository) Clear(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, userID)
	return nil
}

func (r *memorySelectionRepository) Members(_ context.Context, userID uint) ([]uint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.sets[userID]
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}
