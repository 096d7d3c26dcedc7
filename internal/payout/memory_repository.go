package payout

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	payouts []Payout
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository(payouts ...Payout) Repository {
	repo := &memoryRepository{payouts: make([]Payout, len(payouts))}
	copy(repo.payouts, payouts)
	repo.sortLocked()
	return repo
}

func (r *memoryRepository) FindAll(_ context.Context, f Filter) ([]Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matching(f), nil
}

func (r *memoryRepository) Find(_ context.Context, f Filter, skip, limit int) ([]Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.matching(f)
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryRepository) Count(_ context.Context, f Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(f)), nil
}

func (r *memoryRepository) matching(f Filter) []Payout {
	var matched []Payout
	for _, p := range r.payouts {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (r *memoryRepository) sortLocked() {
	sort.Slice(r.payouts, func(i, j int) bool {
		if !r.payouts[i].Created.Equal(r.payouts[j].Created) {
			return r.payouts[i].Created.Before(r.payouts[j].Created)
		}
		return r.payouts[i].ID < r.payouts[j].ID
	})
}
