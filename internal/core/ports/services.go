package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"healcoin-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Infrastructure Ports ---

// AuditHasher computes the tamper-evidence hash of an audit entry.
type AuditHasher interface {
	Hash(entry *domain.AuditEntry) (string, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(subject string, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// Roles carried in tokens.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleService = "service" // games, trackers and other crediting backends
)

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher emits committed ledger events. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close()
}

// --- Service Ports (Business Logic) ---

// LedgerService owns account balances.
type LedgerService interface {
	GetBalance(ctx context.Context, accountID string) (*domain.Account, error)
	Earn(ctx context.Context, req EarnRequest) (*LedgerResult, error)
	Redeem(ctx context.Context, req RedeemRequest) (*LedgerResult, error)
	CreditRefund(ctx context.Context, req RefundRequest) (*LedgerResult, error)
	ListTransactions(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
}

// EarnRequest holds validated input for a credit.
type EarnRequest struct {
	AccountID      string
	Amount         int64
	Source         string
	Description    string
	Metadata       map[string]string
	ActorID        string
	IdempotencyKey string
}

// RedeemRequest holds input for a debit. Amount 0 with a RewardID charges
// the reward's cost.
type RedeemRequest struct {
	AccountID      string
	Amount         int64
	RewardID       string
	ActorID        string
	IdempotencyKey string
}

// RefundRequest holds input for a cap-exempt credit.
type RefundRequest struct {
	AccountID      string
	Amount         int64
	Reason         string
	ActorID        string
	IdempotencyKey string
}

// LedgerResult is returned by every balance mutation and stored for
// idempotent replay.
type LedgerResult struct {
	Account      *domain.Account     `json:"account"`
	Transaction  *domain.Transaction `json:"transaction"`
	AuditEntryID uuid.UUID           `json:"audit_entry_id"`
	Fraud        domain.FraudSignal  `json:"fraud"`
	Replayed     bool                `json:"replayed"`
}

// CapsTracker enforces daily and monthly usage ceilings.
type CapsTracker interface {
	DailyEarned(ctx context.Context, accountID string, now time.Time) (int64, error)
	DailyRedeemed(ctx context.Context, accountID string, now time.Time) (int64, error)
	MonthlyRedeemed(ctx context.Context, accountID string, now time.Time) (int64, error)
	// Usage reads the counters inside tx, rolled over for now.
	Usage(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (domain.UsageCounter, error)
	CheckEarn(usage domain.UsageCounter, amount int64) error
	CheckRedeem(usage domain.UsageCounter, amount int64) error
	RecordUsage(ctx context.Context, tx pgx.Tx, usage domain.UsageCounter, earnDelta, redeemDelta int64, now time.Time) error
}

// FraudService computes fraud signals and duplicate rejections. A nil tx
// reads committed history outside any transaction.
type FraudService interface {
	IsSuspiciousActivity(ctx context.Context, tx pgx.Tx, accountID string, activity domain.ActivityContext) (domain.FraudSignal, error)
	IsDuplicateRedemption(ctx context.Context, tx pgx.Tx, accountID, rewardID string, now time.Time) (bool, error)
	IsDuplicateEarning(ctx context.Context, tx pgx.Tx, accountID, source string, amount int64, now time.Time) (bool, error)
	IsDuplicateCarbonAction(ctx context.Context, accountID, actionType string) (bool, error)
	IsDuplicateGameSubmission(ctx context.Context, accountID, gameID string) (bool, error)
	RecordLogin(ctx context.Context, accountID string, login domain.LoginContext) (domain.FraudSignal, error)
}

// AuditTrail appends, verifies and reverses audit entries.
type AuditTrail interface {
	Append(ctx context.Context, tx pgx.Tx, rec AuditRecord) (*domain.AuditEntry, error)
	Reverse(ctx context.Context, actorID string, entryID uuid.UUID) (*domain.ReversalResult, error)
	VerifyChain(ctx context.Context, entityID string) (*domain.ChainReport, error)
	List(ctx context.Context, entityID string, limit int) ([]domain.AuditEntry, error)
}

// AuditRecord is the input of AuditTrail.Append.
type AuditRecord struct {
	ActorID         string
	ActionType      domain.AuditActionType
	EntityID        string
	Before          domain.AccountSnapshot
	After           domain.AccountSnapshot
	Source          string
	ReversesEntryID *uuid.UUID
	At              time.Time
}
