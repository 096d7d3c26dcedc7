package payout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository reads payout records.
type Repository interface {
	FindAll(ctx context.Context, f Filter) ([]Payout, error)
	Find(ctx context.Context, f Filter, skip, limit int) ([]Payout, error)
	Count(ctx context.Context, f Filter) (int, error)
}

// PostgresRepository reads payouts from PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payout repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `SELECT id, user_id, affiliate_tracking_id, amount, status, user_type, created, payment_date FROM payouts`

// buildWhere renders the filter as a WHERE clause. Unset fields emit no
// condition at all.
func buildWhere(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", f.Statuses)
	}
	if f.CreatedFrom != nil {
		add("created >= $%d", f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		add("created <= $%d", f.CreatedTo.UTC())
	}
	if f.PaidFrom != nil {
		add("payment_date >= $%d", f.PaidFrom.UTC())
	}
	if f.PaidTo != nil {
		add("payment_date <= $%d", f.PaidTo.UTC())
	}
	if f.UserType != "" {
		add("user_type = $%d", f.UserType)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindAll returns every payout matching the filter.
func (r *PostgresRepository) FindAll(ctx context.Context, f Filter) ([]Payout, error) {
	where, args := buildWhere(f)
	rows, err := r.db.Query(ctx, selectColumns+where+" ORDER BY created, id", args...)
	if err != nil {
		return nil, err
	}
	return scanPayouts(rows)
}

// Find returns one skip/limit window of matching payouts. Rows are ordered by
// (created, id) so windows are stable across requests.
func (r *PostgresRepository) Find(ctx context.Context, f Filter, skip, limit int) ([]Payout, error) {
	where, args := buildWhere(f)
	args = append(args, limit, skip)
	query := fmt.Sprintf("%s%s ORDER BY created, id LIMIT $%d OFFSET $%d", selectColumns, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanPayouts(rows)
}

// Count returns the number of payouts matching the filter.
func (r *PostgresRepository) Count(ctx context.Context, f Filter) (int, error) {
	where, args := buildWhere(f)
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payouts"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanPayouts(rows pgx.Rows) ([]Payout, error) {
	defer rows.Close()

	var payouts []Payout
	for rows.Next() {
		var (
			p           Payout
			id          uuid.UUID
			userID      uuid.UUID
			trackingID  *uuid.UUID
			amount      decimal.Decimal
			created     time.Time
			paymentDate time.Time
		)
		if err := rows.Scan(&id, &userID, &trackingID, &amount, &p.Status, &p.UserType, &created, &paymentDate); err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.UserID = userID.String()
		if trackingID != nil {
			p.AffiliateTrackingID = trackingID.String()
		}
		p.Amount = amount
		p.Created = created.UTC()
		p.PaymentDate = paymentDate.UTC()
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payouts, nil
}
