package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, heal_coin_balance, inr_balance::text, total_earned, total_redeemed,
		is_active, last_transaction_at, version, created_at, updated_at`

const insertAccountIfMissing = `INSERT INTO accounts (account_id, heal_coin_balance, inr_balance, total_earned,
		total_redeemed, is_active, version, created_at, updated_at)
		VALUES ($1, 0, 0, 0, 0, TRUE, 0, $2, $2)
		ON CONFLICT (account_id) DO NOTHING`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetOrCreate inserts a zero-balance account if missing and returns the stored row.
func (r *AccountRepo) GetOrCreate(ctx context.Context, accountID string, now time.Time) (*domain.Account, error) {
	if _, err := r.pool.Exec(ctx, insertAccountIfMissing, accountID, now); err != nil {
		return nil, wrapErr("insert account", err)
	}
	a, err := r.scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("account vanished after insert: %s", accountID)
	}
	return a, nil
}

// GetByID fetches an account (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID))
}

// GetOrCreateForUpdate inserts the account if missing and locks its row.
// This MUST be called within a transaction.
func (r *AccountRepo) GetOrCreateForUpdate(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (*domain.Account, error) {
	if _, err := tx.Exec(ctx, insertAccountIfMissing, accountID, now); err != nil {
		return nil, wrapErr("insert account", err)
	}
	a, err := r.scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE`, accountID))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("account vanished after insert: %s", accountID)
	}
	return a, nil
}

// Update writes the account if its version is unchanged and bumps the version.
func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET heal_coin_balance = $1, inr_balance = $2::numeric, total_earned = $3,
		total_redeemed = $4, is_active = $5, last_transaction_at = $6, updated_at = $7, version = version + 1
		WHERE account_id = $8 AND version = $9`

	tag, err := tx.Exec(ctx, query,
		a.HealCoinBalance, a.InrBalance.String(), a.TotalEarned, a.TotalRedeemed,
		a.IsActive, a.LastTransactionAt, a.UpdatedAt, a.AccountID, a.Version,
	)
	if err != nil {
		return wrapErr("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update account %s at version %d: %w", a.AccountID, a.Version, ports.ErrWriteConflict)
	}
	a.Version++
	return nil
}

func (r *AccountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var inr string
	err := row.Scan(
		&a.AccountID, &a.HealCoinBalance, &inr, &a.TotalEarned, &a.TotalRedeemed,
		&a.IsActive, &a.LastTransactionAt, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("scan account", err)
	}
	if a.InrBalance, err = decimal.NewFromString(inr); err != nil {
		return nil, fmt.Errorf("parse inr balance %q: %w", inr, err)
	}
	return a, nil
}
