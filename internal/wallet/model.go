package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a pending credit (or debit) that matures once its availability
// date has passed.
type Entry struct {
	ID            string
	Amount        decimal.Decimal
	DateAvailable time.Time
}

// Wallet holds the per-user balances and the ledger of unmatured entries.
// Version changes on every settlement write and guards concurrent updates.
type Wallet struct {
	ID               string
	UserID           string
	AvailableBalance decimal.Decimal
	PendingBalance   decimal.Decimal
	Entries          []Entry
	Version          int64
}
