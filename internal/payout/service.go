package payout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is the number of rows per page unless configured otherwise
// at startup. Page size is never negotiated per request.
const DefaultPageSize = 3

// Settler releases matured wallet funds for a user and reports the resulting
// available and pending balances.
type Settler interface {
	Settle(ctx context.Context, userID string) (decimal.Decimal, decimal.Decimal, error)
}

// Row is one payout as rendered to API clients.
type Row struct {
	ID                  string           `json:"id"`
	UserID              string           `json:"userId"`
	AffiliateTrackingID string           `json:"affiliateTrackingId,omitempty"`
	Amount              decimal.Decimal  `json:"amount"`
	Status              string           `json:"status"`
	UserType            string           `json:"userType"`
	Created             time.Time        `json:"created"`
	PaymentDate         time.Time        `json:"paymentDate"`
	AvailableBalance    *decimal.Decimal `json:"availableBalance,omitempty"`
	PendingBalance      *decimal.Decimal `json:"pendingBalance,omitempty"`
}

// Envelope wraps query results with pagination metadata.
//
// TotalDocs is the store-side count in paginated mode but the length of the
// returned set when no page was requested; the unpaginated path deliberately
// skips the extra count query.
type Envelope struct {
	Page       *int  `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalDocs  int   `json:"totalDocs"`
	Results    []Row `json:"results"`
}

// Service executes filtered payout queries and assembles pagination envelopes.
type Service struct {
	repo     Repository
	settler  Settler
	pageSize int
}

// NewService builds a payout query service. A pageSize below 1 falls back to
// DefaultPageSize.
func NewService(repo Repository, settler Settler, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Service{repo: repo, settler: settler, pageSize: pageSize}
}

// List runs the filter and returns one envelope. A nil page disables
// pagination and returns every match. Page numbers below 1 clamp to 1. When
// includeWallet is set every row triggers one settlement for its owner and is
// annotated with the resulting balances; the first settlement failure aborts
// the request.
func (s *Service) List(ctx context.Context, page *int, f Filter, includeWallet bool) (Envelope, error) {
	if page == nil {
		payouts, err := s.repo.FindAll(ctx, f)
		if err != nil {
			return Envelope{}, err
		}
		rows, err := s.render(ctx, payouts, includeWallet)
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{
			Page:       nil,
			PageSize:   s.pageSize,
			TotalPages: 1,
			TotalDocs:  len(rows),
			Results:    rows,
		}, nil
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return Envelope{}, err
	}

	resolved := *page
	if resolved < 1 {
		resolved = 1
	}
	skip := (resolved - 1) * s.pageSize

	payouts, err := s.repo.Find(ctx, f, skip, s.pageSize)
	if err != nil {
		return Envelope{}, err
	}
	rows, err := s.render(ctx, payouts, includeWallet)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Page:       &resolved,
		PageSize:   s.pageSize,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
		TotalDocs:  total,
		Results:    rows,
	}, nil
}

func (s *Service) render(ctx context.Context, payouts []Payout, includeWallet bool) ([]Row, error) {
	rows := make([]Row, 0, len(payouts))
	for _, p := range payouts {
		row := Row{
			ID:                  p.ID,
			UserID:              p.UserID,
			AffiliateTrackingID: p.AffiliateTrackingID,
			Amount:              p.Amount,
			Status:              p.Status,
			UserType:            p.UserType,
			Created:             p.Created,
			PaymentDate:         p.PaymentDate,
		}
		if includeWallet {
			available, pending, err := s.settler.Settle(ctx, p.UserID)
			if err != nil {
				return nil, err
			}
			row.AvailableBalance = &available
			row.PendingBalance = &pending
		}
		rows = append(rows, row)
	}
	return rows, nil
}
