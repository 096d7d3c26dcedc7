package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/affipay/payout-api/internal/notification"
)

// ErrInvalidID indicates the supplied user reference is not a valid identifier.
var ErrInvalidID = errors.New("not a valid user id")

// Settlement writes race against each other; on a version conflict the state
// is re-read and the fold recomputed, bounded to avoid spinning.
const maxSettleAttempts = 3

// Service settles matured ledger entries into wallet balances.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
}

// NewService builds a wallet settlement service.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Settle folds every entry whose availability date has passed (inclusive)
// into the available balance, recomputes the pending balance from the
// remaining entries, persists both and removes the matured entries. It
// returns the post-settlement balances. Settlement is idempotent: matured
// entries are deleted with the same write that counts them.
func (s *Service) Settle(ctx context.Context, userID string) (decimal.Decimal, decimal.Decimal, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, ErrInvalidID
	}

	for attempt := 0; attempt < maxSettleAttempts; attempt++ {
		w, err := s.repo.FindByUserID(ctx, uid)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		now := s.now()
		available := w.AvailableBalance
		pending := decimal.Zero
		matured := make([]string, 0, len(w.Entries))
		for _, entry := range w.Entries {
			if entry.DateAvailable.After(now) {
				pending = pending.Add(entry.Amount)
			} else {
				available = available.Add(entry.Amount)
				matured = append(matured, entry.ID)
			}
		}

		released := available.Sub(w.AvailableBalance)
		w.AvailableBalance = available
		w.PendingBalance = pending

		err = s.repo.ApplySettlement(ctx, w, matured)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		if len(matured) > 0 && s.notifier != nil {
			_ = s.notifier.Send(ctx, notification.Message{
				Kind:        notification.KindBalanceReleased,
				Destination: w.UserID,
				Body:        fmt.Sprintf("released %s across %d entries", released.String(), len(matured)),
			})
		}

		return available, pending, nil
	}

	return decimal.Zero, decimal.Zero, ErrVersionConflict
}
