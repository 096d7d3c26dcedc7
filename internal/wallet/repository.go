package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no wallet exists for the user.
	ErrNotFound = errors.New("wallet not found")

	// ErrVersionConflict indicates the wallet changed between read and write;
	// the settlement must be recomputed against the fresh state.
	ErrVersionConflict = errors.New("wallet version conflict")
)

// Repository persists wallets and their ledger entries.
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Wallet, error)
	// ApplySettlement writes the wallet's new balances and removes the listed
	// entries, succeeding only if the stored version still equals w.Version.
	ApplySettlement(ctx context.Context, w Wallet, maturedIDs []string) error
}

// PostgresRepository stores wallets in PostgreSQL across the wallets and
// wallet_entries tables.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUserID fetches a wallet and its ledger entries by owner.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, available_balance, pending_balance, version
        FROM wallets WHERE user_id = $1`, userID)

	var (
		id    uuid.UUID
		owner uuid.UUID
		w     Wallet
	)
	if err := row.Scan(&id, &owner, &w.AvailableBalance, &w.PendingBalance, &w.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.UserID = owner.String()

	rows, err := r.db.Query(ctx, `SELECT id, amount, date_available
        FROM wallet_entries WHERE wallet_id = $1 ORDER BY date_available, id`, id)
	if err != nil {
		return Wallet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry         Entry
			amount        decimal.Decimal
			dateAvailable time.Time
		)
		if err := rows.Scan(&entry.ID, &amount, &dateAvailable); err != nil {
			return Wallet{}, err
		}
		entry.Amount = amount
		entry.DateAvailable = dateAvailable.UTC()
		w.Entries = append(w.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return Wallet{}, err
	}

	return w, nil
}

// ApplySettlement updates balances and deletes matured entries in one
// transaction, guarded by the wallet version.
func (r *PostgresRepository) ApplySettlement(ctx context.Context, w Wallet, maturedIDs []string) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE wallets
        SET available_balance = $1, pending_balance = $2, version = version + 1
        WHERE id = $3 AND version = $4`,
		w.AvailableBalance, w.PendingBalance, walletID, w.Version)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}

	if len(maturedIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM wallet_entries
            WHERE wallet_id = $1 AND id = ANY($2)`, walletID, maturedIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
