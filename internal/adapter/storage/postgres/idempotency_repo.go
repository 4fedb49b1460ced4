package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct {
	pool Pool
	ttl  time.Duration
}

// NewIdempotencyRepo creates a new IdempotencyRepo. A stored key can be
// reused once it is older than ttl.
func NewIdempotencyRepo(pool Pool, ttl time.Duration) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool, ttl: ttl}
}

// Create inserts an idempotency log within a database transaction. An
// unexpired log with the same key yields ports.ErrWriteConflict.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	query := `INSERT INTO idempotency_logs (key, transaction_id, response_json, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			transaction_id = EXCLUDED.transaction_id,
			response_json = EXCLUDED.response_json,
			created_at = EXCLUDED.created_at
		WHERE idempotency_logs.created_at < $5`

	tag, err := tx.Exec(ctx, query, log.Key, log.TransactionID, log.ResponseJSON, log.CreatedAt, log.CreatedAt.Add(-r.ttl))
	if err != nil {
		return wrapErr("insert idempotency log", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idempotency key %q in use: %w", log.Key, ports.ErrWriteConflict)
	}
	return nil
}

// Get fetches an idempotency log by key.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	query := `SELECT key, transaction_id, response_json, created_at FROM idempotency_logs WHERE key = $1`

	log := &domain.IdempotencyLog{}
	err := r.pool.QueryRow(ctx, query, key).Scan(&log.Key, &log.TransactionID, &log.ResponseJSON, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency log: %w", err)
	}
	return log, nil
}
