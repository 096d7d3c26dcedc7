package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func seedTestWallet(repo Repository, userID string) {
	now := fixedNow()
	Seed(repo, Wallet{
		ID:               uuid.NewString(),
		UserID:           userID,
		AvailableBalance: decimal.NewFromInt(100),
		PendingBalance:   decimal.NewFromInt(999), // stale on purpose, settlement recomputes it
		Entries: []Entry{
			{ID: "t1", Amount: decimal.NewFromInt(50), DateAvailable: now.Add(-24 * time.Hour)},
			{ID: "t2", Amount: decimal.NewFromInt(25), DateAvailable: now.Add(24 * time.Hour)},
		},
	})
}

func TestSettleConservation(t *testing.T) {
	repo := NewMemoryRepository()
	userID := uuid.NewString()
	seedTestWallet(repo, userID)

	svc := NewService(repo, nil)
	svc.now = fixedNow

	available, pending, err := svc.Settle(context.Background(), userID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected available 150, got %s", available)
	}
	if !pending.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected pending 25, got %s", pending)
	}

	w, err := repo.FindByUserID(context.Background(), uuid.MustParse(userID))
	if err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	if len(w.Entries) != 1 || w.Entries[0].ID != "t2" {
		t.Fatalf("expected only t2 to remain, got %v", w.Entries)
	}
	if !w.AvailableBalance.Equal(decimal.NewFromInt(150)) || !w.PendingBalance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("persisted balances wrong: available=%s pending=%s", w.AvailableBalance, w.PendingBalance)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	userID := uuid.NewString()
	seedTestWallet(repo, userID)

	svc := NewService(repo, nil)
	svc.now = fixedNow

	if _, _, err := svc.Settle(context.Background(), userID); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	available, pending, err := svc.Settle(context.Background(), userID)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(150)) || !pending.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("second settle moved balances: available=%s pending=%s", available, pending)
	}
}

func TestSettleMaturityBoundaryIsInclusive(t *testing.T) {
	repo := NewMemoryRepository()
	userID := uuid.NewString()
	Seed(repo, Wallet{
		ID:               uuid.NewString(),
		UserID:           userID,
		AvailableBalance: decimal.Zero,
		Entries: []Entry{
			{ID: "edge", Amount: decimal.NewFromInt(10), DateAvailable: fixedNow()},
		},
	})

	svc := NewService(repo, nil)
	svc.now = fixedNow

	available, pending, err := svc.Settle(context.Background(), userID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected entry maturing exactly now to fold, available=%s", available)
	}
	if !pending.IsZero() {
		t.Fatalf("expected no pending, got %s", pending)
	}
}

func TestSettleNegativeAmounts(t *testing.T) {
	repo := NewMemoryRepository()
	userID := uuid.NewString()
	Seed(repo, Wallet{
		ID:               uuid.NewString(),
		UserID:           userID,
		AvailableBalance: decimal.NewFromInt(100),
		Entries: []Entry{
			{ID: "chargeback", Amount: decimal.NewFromInt(-30), DateAvailable: fixedNow().Add(-time.Hour)},
		},
	})

	svc := NewService(repo, nil)
	svc.now = fixedNow

	available, _, err := svc.Settle(context.Background(), userID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected negative amount folded, available=%s", available)
	}
}

func TestSettleInvalidUserID(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	if _, _, err := svc.Settle(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestSettleUnknownWallet(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	if _, _, err := svc.Settle(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// conflictingRepository rejects the first writes with a version conflict to
// exercise the retry loop.
type conflictingRepository struct {
	Repository
	conflicts int
}

func (r *conflictingRepository) ApplySettlement(ctx context.Context, w Wallet, maturedIDs []string) error {
	if r.conflicts > 0 {
		r.conflicts--
		return ErrVersionConflict
	}
	return r.Repository.ApplySettlement(ctx, w, maturedIDs)
}

func TestSettleRetriesOnVersionConflict(t *testing.T) {
	inner := NewMemoryRepository()
	userID := uuid.NewString()
	seedTestWallet(inner, userID)

	repo := &conflictingRepository{Repository: inner, conflicts: 2}
	svc := NewService(repo, nil)
	svc.now = fixedNow

	available, pending, err := svc.Settle(context.Background(), userID)
	if err != nil {
		t.Fatalf("settle after conflicts: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(150)) || !pending.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected balances after retry: available=%s pending=%s", available, pending)
	}
}

func TestSettleGivesUpAfterRepeatedConflicts(t *testing.T) {
	inner := NewMemoryRepository()
	userID := uuid.NewString()
	seedTestWallet(inner, userID)

	repo := &conflictingRepository{Repository: inner, conflicts: maxSettleAttempts}
	svc := NewService(repo, nil)
	svc.now = fixedNow

	if _, _, err := svc.Settle(context.Background(), userID); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict after exhausting retries, got %v", err)
	}
}
