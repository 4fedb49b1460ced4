package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"healcoin-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrWriteConflict is returned by repositories when a write lost a race with
// a concurrent transaction (version mismatch, serialization failure,
// deadlock, unique collision). Callers retry the whole unit of work.
var ErrWriteConflict = errors.New("storage write conflict")

// Methods accepting pgx.Tx run inside the caller's transaction. Read methods
// accept a nil tx and then read committed state outside any transaction.

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// GetOrCreate is an idempotent upsert keyed by account id; the first writer wins.
	GetOrCreate(ctx context.Context, accountID string, now time.Time) (*domain.Account, error)
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)
	// GetOrCreateForUpdate creates the account if missing and locks its row.
	GetOrCreateForUpdate(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (*domain.Account, error)
	// Update writes the account if its stored version still equals
	// account.Version, then bumps the version. Returns ErrWriteConflict otherwise.
	Update(ctx context.Context, tx pgx.Tx, account *domain.Account) error
}

// TransactionRepository defines persistence operations for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
	// CountUserActivitySince counts earn and redeem transactions created at or after since.
	CountUserActivitySince(ctx context.Context, tx pgx.Tx, accountID string, since time.Time) (int, error)
	// RecentCreditAmounts returns the newest earn/bonus amounts, newest first.
	RecentCreditAmounts(ctx context.Context, tx pgx.Tx, accountID string, limit int) ([]int64, error)
	// RecentEarningTimes returns creation times of the newest earn transactions
	// with the given source and amount, newest first.
	RecentEarningTimes(ctx context.Context, tx pgx.Tx, accountID, source string, amount int64, limit int) ([]time.Time, error)
	// RecentRedemptionTimes returns creation times of the newest redeem
	// transactions for the reward, newest first.
	RecentRedemptionTimes(ctx context.Context, tx pgx.Tx, accountID, rewardID string, limit int) ([]time.Time, error)
}

// UsageRepository persists per-account cap counters.
type UsageRepository interface {
	Get(ctx context.Context, accountID string) (*domain.UsageCounter, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.UsageCounter, error)
	Upsert(ctx context.Context, tx pgx.Tx, usage *domain.UsageCounter) error
}

// AuditRepository persists the append-only audit chain.
type AuditRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditEntry, error)
	// GetLast returns the newest entry of the entity's chain, or nil.
	GetLast(ctx context.Context, tx pgx.Tx, entityID string) (*domain.AuditEntry, error)
	// HasReversal reports whether a reversal entry for entryID exists.
	HasReversal(ctx context.Context, tx pgx.Tx, entryID uuid.UUID) (bool, error)
	// ListByEntity returns the newest entries first.
	ListByEntity(ctx context.Context, entityID string, limit int) ([]domain.AuditEntry, error)
	// ListChain returns every entry of the entity in append order.
	ListChain(ctx context.Context, entityID string) ([]domain.AuditEntry, error)
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	// Create stores the log, replacing an expired log with the same key.
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// RewardRepository reads the reward catalog.
type RewardRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, rewardID string) (*domain.Reward, error)
	DecrementStock(ctx context.Context, tx pgx.Tx, rewardID string) error
}

// LoginRepository stores login history.
type LoginRepository interface {
	Create(ctx context.Context, login *domain.LoginRecord) error
	// ListRecent returns the newest logins first.
	ListRecent(ctx context.Context, accountID string, limit int) ([]domain.LoginRecord, error)
}

// ActivityRepository reads carbon-action and game-submission history written
// by other services.
type ActivityRepository interface {
	RecentCarbonActionTimes(ctx context.Context, accountID, actionType string, limit int) ([]time.Time, error)
	RecentGameSubmissionTimes(ctx context.Context, accountID, gameID string, limit int) ([]time.Time, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
