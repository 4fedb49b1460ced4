package postgres

import (
	"context"
	"errors"
	"fmt"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// RewardRepo implements ports.RewardRepository over the shared catalog table.
type RewardRepo struct {
	pool Pool
}

// NewRewardRepo creates a new RewardRepo.
func NewRewardRepo(pool Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

// GetForUpdate fetches a reward and locks its row.
func (r *RewardRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, rewardID string) (*domain.Reward, error) {
	query := `SELECT id, name, cost, stock, is_active FROM rewards WHERE id = $1 FOR UPDATE`

	rw := &domain.Reward{}
	err := tx.QueryRow(ctx, query, rewardID).Scan(&rw.ID, &rw.Name, &rw.Cost, &rw.Stock, &rw.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get reward for update", err)
	}
	return rw, nil
}

// DecrementStock takes one unit of a stock-tracked reward.
func (r *RewardRepo) DecrementStock(ctx context.Context, tx pgx.Tx, rewardID string) error {
	query := `UPDATE rewards SET stock = stock - 1 WHERE id = $1 AND stock > 0`

	tag, err := tx.Exec(ctx, query, rewardID)
	if err != nil {
		return wrapErr("decrement reward stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reward %s out of stock: %w", rewardID, ports.ErrWriteConflict)
	}
	return nil
}
