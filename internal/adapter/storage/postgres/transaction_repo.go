package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"healcoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, account_id, type, amount, source, description, reward_id,
		idempotency_key, metadata, created_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	var metadata []byte
	if len(t.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(t.Metadata); err != nil {
			return fmt.Errorf("marshal transaction metadata: %w", err)
		}
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.AccountID, t.Type, t.Amount, t.Source, t.Description,
		t.RewardID, t.IdempotencyKey, metadata, t.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert transaction", err)
	}
	return nil
}

// ListByAccount fetches the newest transactions of an account.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// CountUserActivitySince counts earn and redeem transactions created at or after since.
func (r *TransactionRepo) CountUserActivitySince(ctx context.Context, tx pgx.Tx, accountID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions
		WHERE account_id = $1 AND type IN ('earn', 'redeem') AND created_at >= $2`

	var n int
	if err := on(tx, r.pool).QueryRow(ctx, query, accountID, since).Scan(&n); err != nil {
		return 0, wrapErr("count activity", err)
	}
	return n, nil
}

// RecentCreditAmounts returns the newest earn/bonus amounts, newest first.
func (r *TransactionRepo) RecentCreditAmounts(ctx context.Context, tx pgx.Tx, accountID string, limit int) ([]int64, error) {
	query := `SELECT amount FROM transactions
		WHERE account_id = $1 AND type IN ('earn', 'bonus')
		ORDER BY created_at DESC LIMIT $2`

	rows, err := on(tx, r.pool).Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, wrapErr("recent credit amounts", err)
	}
	amounts, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, wrapErr("collect credit amounts", err)
	}
	return amounts, nil
}

// RecentEarningTimes returns times of the newest earns with the same source and amount.
func (r *TransactionRepo) RecentEarningTimes(ctx context.Context, tx pgx.Tx, accountID, source string, amount int64, limit int) ([]time.Time, error) {
	query := `SELECT created_at FROM transactions
		WHERE account_id = $1 AND type = 'earn' AND source = $2 AND amount = $3
		ORDER BY created_at DESC LIMIT $4`

	rows, err := on(tx, r.pool).Query(ctx, query, accountID, source, amount, limit)
	return collectTimes("recent earning times", rows, err)
}

// RecentRedemptionTimes returns times of the newest redemptions of the reward.
func (r *TransactionRepo) RecentRedemptionTimes(ctx context.Context, tx pgx.Tx, accountID, rewardID string, limit int) ([]time.Time, error) {
	query := `SELECT created_at FROM transactions
		WHERE account_id = $1 AND type = 'redeem' AND reward_id = $2
		ORDER BY created_at DESC LIMIT $3`

	rows, err := on(tx, r.pool).Query(ctx, query, accountID, rewardID, limit)
	return collectTimes("recent redemption times", rows, err)
}

func collectTimes(op string, rows pgx.Rows, err error) ([]time.Time, error) {
	if err != nil {
		return nil, wrapErr(op, err)
	}
	times, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return times, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var metadata []byte
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Source, &t.Description,
		&t.RewardID, &t.IdempotencyKey, &metadata, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction row: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal transaction metadata: %w", err)
		}
	}
	return t, nil
}
