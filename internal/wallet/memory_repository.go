package wallet

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu       sync.Mutex
	byUserID map[string]Wallet
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUserID: make(map[string]Wallet)}
}

func (r *memoryRepository) FindByUserID(_ context.Context, userID uuid.UUID) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byUserID[userID.String()]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return cloneWallet(w), nil
}

func (r *memoryRepository) ApplySettlement(_ context.Context, w Wallet, maturedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byUserID[w.UserID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != w.Version {
		return ErrVersionConflict
	}

	matured := make(map[string]bool, len(maturedIDs))
	for _, id := range maturedIDs {
		matured[id] = true
	}

	remaining := make([]Entry, 0, len(stored.Entries))
	for _, entry := range stored.Entries {
		if !matured[entry.ID] {
			remaining = append(remaining, entry)
		}
	}

	stored.AvailableBalance = w.AvailableBalance
	stored.PendingBalance = w.PendingBalance
	stored.Entries = remaining
	stored.Version++
	r.byUserID[w.UserID] = stored
	return nil
}

func cloneWallet(w Wallet) Wallet {
	out := w
	out.Entries = make([]Entry, len(w.Entries))
	copy(out.Entries, w.Entries)
	return out
}
