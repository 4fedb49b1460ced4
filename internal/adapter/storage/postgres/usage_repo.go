package postgres

import (
	"context"
	"errors"

	"healcoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const usageColumns = `account_id, daily_earned, daily_redeemed, monthly_redeemed, period_anchor`

// UsageRepo implements ports.UsageRepository.
type UsageRepo struct {
	pool Pool
}

// NewUsageRepo creates a new UsageRepo.
func NewUsageRepo(pool Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

// Get fetches the stored counter, or nil if none was recorded.
func (r *UsageRepo) Get(ctx context.Context, accountID string) (*domain.UsageCounter, error) {
	return scanUsage(r.pool.QueryRow(ctx, `SELECT `+usageColumns+` FROM usage_counters WHERE account_id = $1`, accountID))
}

// GetForUpdate fetches the counter and locks its row.
func (r *UsageRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.UsageCounter, error) {
	return scanUsage(tx.QueryRow(ctx, `SELECT `+usageColumns+` FROM usage_counters WHERE account_id = $1 FOR UPDATE`, accountID))
}

// Upsert writes the counter within a database transaction.
func (r *UsageRepo) Upsert(ctx context.Context, tx pgx.Tx, u *domain.UsageCounter) error {
	query := `INSERT INTO usage_counters (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE SET
			daily_earned = EXCLUDED.daily_earned,
			daily_redeemed = EXCLUDED.daily_redeemed,
			monthly_redeemed = EXCLUDED.monthly_redeemed,
			period_anchor = EXCLUDED.period_anchor`

	_, err := tx.Exec(ctx, query, u.AccountID, u.DailyEarned, u.DailyRedeemed, u.MonthlyRedeemed, u.PeriodAnchor)
	if err != nil {
		return wrapErr("upsert usage", err)
	}
	return nil
}

func scanUsage(row pgx.Row) (*domain.UsageCounter, error) {
	u := &domain.UsageCounter{}
	err := row.Scan(&u.AccountID, &u.DailyEarned, &u.DailyRedeemed, &u.MonthlyRedeemed, &u.PeriodAnchor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get usage", err)
	}
	return u, nil
}
