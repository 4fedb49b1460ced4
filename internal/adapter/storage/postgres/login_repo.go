package postgres

import (
	"context"
	"fmt"
	"time"

	"healcoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LoginRepo implements ports.LoginRepository.
type LoginRepo struct {
	pool Pool
}

// NewLoginRepo creates a new LoginRepo.
func NewLoginRepo(pool Pool) *LoginRepo {
	return &LoginRepo{pool: pool}
}

// Create stores a login record.
func (r *LoginRepo) Create(ctx context.Context, l *domain.LoginRecord) error {
	query := `INSERT INTO login_history (account_id, device_id, ip_address, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, l.AccountID, l.DeviceID, l.IPAddress, l.CreatedAt); err != nil {
		return wrapErr("insert login", err)
	}
	return nil
}

// ListRecent fetches the newest logins first.
func (r *LoginRepo) ListRecent(ctx context.Context, accountID string, limit int) ([]domain.LoginRecord, error) {
	query := `SELECT account_id, device_id, ip_address, created_at FROM login_history
		WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, wrapErr("list logins", err)
	}
	logins, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LoginRecord, error) {
		var l domain.LoginRecord
		err := row.Scan(&l.AccountID, &l.DeviceID, &l.IPAddress, &l.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect logins: %w", err)
	}
	return logins, nil
}

// ActivityRepo implements ports.ActivityRepository over tables owned by the
// carbon tracker and game services.
type ActivityRepo struct {
	pool Pool
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(pool Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// RecentCarbonActionTimes returns times of the newest matching carbon actions.
func (r *ActivityRepo) RecentCarbonActionTimes(ctx context.Context, accountID, actionType string, limit int) ([]time.Time, error) {
	query := `SELECT created_at FROM carbon_action_logs
		WHERE account_id = $1 AND action_type = $2 ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, accountID, actionType, limit)
	return collectTimes("recent carbon actions", rows, err)
}

// RecentGameSubmissionTimes returns times of the newest submissions for the game.
func (r *ActivityRepo) RecentGameSubmissionTimes(ctx context.Context, accountID, gameID string, limit int) ([]time.Time, error) {
	query := `SELECT created_at FROM game_submissions
		WHERE account_id = $1 AND game_id = $2 ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, accountID, gameID, limit)
	return collectTimes("recent game submissions", rows, err)
}
