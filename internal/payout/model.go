package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout represents one payout record owned by the payout store. This service
// reads and reshapes payouts; it never computes or mutates them.
type Payout struct {
	ID                  string
	UserID              string
	AffiliateTrackingID string
	Amount              decimal.Decimal
	Status              string
	UserType            string
	Created             time.Time
	PaymentDate         time.Time
}
