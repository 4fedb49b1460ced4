package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"healcoin-ledger/config"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/internal/metrics"
	"healcoin-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// LedgerService implements ports.LedgerService. Every mutation runs as one
// database transaction holding the account row lock; caps, duplicate and
// fraud checks are evaluated inside that transaction on every attempt.
type LedgerService struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	idempRepo   ports.IdempotencyRepository
	rewardRepo  ports.RewardRepository
	idempCache  ports.IdempotencyCache
	publisher   ports.EventPublisher
	transactor  ports.DBTransactor
	caps        ports.CapsTracker
	fraud       ports.FraudService
	audit       ports.AuditTrail
	cfg         config.LedgerConfig
	block       bool // reject suspicious earn/redeem instead of only flagging
	group       singleflight.Group
	now         func() time.Time
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerService. idempCache and publisher may be nil.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	idempRepo ports.IdempotencyRepository,
	rewardRepo ports.RewardRepository,
	idempCache ports.IdempotencyCache,
	publisher ports.EventPublisher,
	transactor ports.DBTransactor,
	caps ports.CapsTracker,
	fraud ports.FraudService,
	audit ports.AuditTrail,
	cfg config.LedgerConfig,
	blockSuspicious bool,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		idempRepo:   idempRepo,
		rewardRepo:  rewardRepo,
		idempCache:  idempCache,
		publisher:   publisher,
		transactor:  transactor,
		caps:        caps,
		fraud:       fraud,
		audit:       audit,
		cfg:         cfg,
		block:       blockSuspicious,
		now:         time.Now,
		log:         log,
	}
}

// GetBalance returns the account, creating a zero-balance one on first read.
// Concurrent reads of the same account share one storage round trip.
func (s *LedgerService) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, apperror.Validation("account_id is required")
	}

	// The lookup is shared, so one caller's cancellation must not fail the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(accountID, func() (any, error) {
		return s.accountRepo.GetOrCreate(shared, accountID, s.clock())
	})
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("get or create account: %w", err))
	}
	acct := *v.(*domain.Account)
	return &acct, nil
}

// Earn credits amount to the account.
func (s *LedgerService) Earn(ctx context.Context, req ports.EarnRequest) (*ports.LedgerResult, error) {
	if req.AccountID == "" {
		return nil, s.reject(domain.TransactionTypeEarn, apperror.Validation("account_id is required"))
	}
	if req.Amount <= 0 {
		return nil, s.reject(domain.TransactionTypeEarn, apperror.ErrInvalidAmount())
	}
	if req.Source == "" {
		return nil, s.reject(domain.TransactionTypeEarn, apperror.Validation("source is required"))
	}

	return s.execute(ctx, domain.TransactionTypeEarn, req.AccountID, req.IdempotencyKey,
		func(ctx context.Context, tx pgx.Tx, now time.Time) (*mutation, error) {
			acct, err := s.lockAccount(ctx, tx, req.AccountID, now)
			if err != nil {
				return nil, err
			}

			usage, err := s.caps.Usage(ctx, tx, req.AccountID, now)
			if err != nil {
				return nil, err
			}
			if err := s.caps.CheckEarn(usage, req.Amount); err != nil {
				return nil, err
			}

			dup, err := s.fraud.IsDuplicateEarning(ctx, tx, req.AccountID, req.Source, req.Amount, now)
			if err != nil {
				return nil, err
			}
			if dup {
				return nil, apperror.ErrDuplicateDetected("Duplicate earning detected")
			}

			signal, err := s.screen(ctx, tx, req.AccountID, domain.EarnContext{Amount: req.Amount, Source: req.Source, At: now})
			if err != nil {
				return nil, err
			}

			txn := &domain.Transaction{
				ID:          uuid.New(),
				AccountID:   req.AccountID,
				Type:        domain.TransactionTypeEarn,
				Amount:      req.Amount,
				Source:      req.Source,
				Description: req.Description,
				Metadata:    req.Metadata,
				CreatedAt:   now,
			}
			m, err := s.commitTransaction(ctx, tx, acct, txn, s.actor(req.ActorID), req.IdempotencyKey)
			if err != nil {
				return nil, err
			}
			if err := s.caps.RecordUsage(ctx, tx, usage, req.Amount, 0, now); err != nil {
				return nil, err
			}
			m.signal = signal
			return m, nil
		})
}

// Redeem debits the account. With Amount 0 and a RewardID the reward's cost is charged.
func (s *LedgerService) Redeem(ctx context.Context, req ports.RedeemRequest) (*ports.LedgerResult, error) {
	if req.AccountID == "" {
		return nil, s.reject(domain.TransactionTypeRedeem, apperror.Validation("account_id is required"))
	}
	if req.Amount < 0 {
		return nil, s.reject(domain.TransactionTypeRedeem, apperror.ErrInvalidAmount())
	}
	if req.Amount == 0 && req.RewardID == "" {
		return nil, s.reject(domain.TransactionTypeRedeem, apperror.Validation("amount or reward_id is required"))
	}

	return s.execute(ctx, domain.TransactionTypeRedeem, req.AccountID, req.IdempotencyKey,
		func(ctx context.Context, tx pgx.Tx, now time.Time) (*mutation, error) {
			acct, err := s.lockAccount(ctx, tx, req.AccountID, now)
			if err != nil {
				return nil, err
			}

			amount := req.Amount
			var reward *domain.Reward
			if req.RewardID != "" {
				reward, err = s.rewardRepo.GetForUpdate(ctx, tx, req.RewardID)
				if err != nil {
					return nil, fmt.Errorf("lock reward: %w", err)
				}
				if reward == nil || !reward.IsActive {
					return nil, apperror.ErrNotFound("reward")
				}
				if !reward.InStock() {
					return nil, apperror.Validation("Reward is out of stock")
				}
				switch {
				case amount == 0:
					amount = reward.Cost
				case amount != reward.Cost:
					return nil, apperror.Validation("Amount does not match reward cost")
				}
			}
			if amount <= 0 {
				return nil, apperror.ErrInvalidAmount()
			}

			if acct.HealCoinBalance < amount {
				return nil, apperror.ErrInsufficientBalance()
			}

			usage, err := s.caps.Usage(ctx, tx, req.AccountID, now)
			if err != nil {
				return nil, err
			}
			if err := s.caps.CheckRedeem(usage, amount); err != nil {
				return nil, err
			}

			if req.RewardID != "" {
				dup, err := s.fraud.IsDuplicateRedemption(ctx, tx, req.AccountID, req.RewardID, now)
				if err != nil {
					return nil, err
				}
				if dup {
					return nil, apperror.ErrDuplicateDetected("Duplicate redemption detected")
				}
			}

			signal, err := s.screen(ctx, tx, req.AccountID, domain.RedeemContext{Amount: amount, RewardID: req.RewardID, At: now})
			if err != nil {
				return nil, err
			}

			txn := &domain.Transaction{
				ID:        uuid.New(),
				AccountID: req.AccountID,
				Type:      domain.TransactionTypeRedeem,
				Amount:    amount,
				Source:    "redeem",
				CreatedAt: now,
			}
			if reward != nil {
				rewardID := reward.ID
				txn.RewardID = &rewardID
				txn.Source = "reward:" + reward.ID
				txn.Description = reward.Name
			}

			m, err := s.commitTransaction(ctx, tx, acct, txn, s.actor(req.ActorID), req.IdempotencyKey)
			if err != nil {
				return nil, err
			}
			if reward != nil && reward.Stock != nil {
				if err := s.rewardRepo.DecrementStock(ctx, tx, reward.ID); err != nil {
					return nil, fmt.Errorf("decrement stock: %w", err)
				}
			}
			if err := s.caps.RecordUsage(ctx, tx, usage, 0, amount, now); err != nil {
				return nil, err
			}
			m.signal = signal
			return m, nil
		})
}

// CreditRefund credits the account without cap or duplicate checks.
// Refunds do not count toward daily earnings.
func (s *LedgerService) CreditRefund(ctx context.Context, req ports.RefundRequest) (*ports.LedgerResult, error) {
	if req.AccountID == "" {
		return nil, s.reject(domain.TransactionTypeRefund, apperror.Validation("account_id is required"))
	}
	if req.Amount <= 0 {
		return nil, s.reject(domain.TransactionTypeRefund, apperror.ErrInvalidAmount())
	}

	return s.execute(ctx, domain.TransactionTypeRefund, req.AccountID, req.IdempotencyKey,
		func(ctx context.Context, tx pgx.Tx, now time.Time) (*mutation, error) {
			acct, err := s.lockAccount(ctx, tx, req.AccountID, now)
			if err != nil {
				return nil, err
			}
			txn := &domain.Transaction{
				ID:          uuid.New(),
				AccountID:   req.AccountID,
				Type:        domain.TransactionTypeRefund,
				Amount:      req.Amount,
				Source:      "refund",
				Description: req.Reason,
				CreatedAt:   now,
			}
			return s.commitTransaction(ctx, tx, acct, txn, s.actor(req.ActorID), req.IdempotencyKey)
		})
}

// ListTransactions returns the account's newest transactions first.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	if accountID == "" {
		return nil, apperror.Validation("account_id is required")
	}
	limit = clampLimit(limit)

	txns, err := s.txRepo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// mutation is what one committed attempt produced.
type mutation struct {
	account  *domain.Account
	txn      *domain.Transaction
	entry    *domain.AuditEntry
	signal   domain.FraudSignal
	replayed *ports.LedgerResult
}

type applyFunc func(ctx context.Context, tx pgx.Tx, now time.Time) (*mutation, error)

// execute runs apply inside a retried transaction and performs the
// idempotency bookkeeping and post-commit side effects.
func (s *LedgerService) execute(ctx context.Context, op domain.TransactionType, accountID, callerKey string, apply applyFunc) (*ports.LedgerResult, error) {
	var idempKey string
	if callerKey != "" {
		idempKey = domain.BuildIdempotencyKey(accountID, op, callerKey)

		// Layer 1: Redis idempotency check
		if cached := s.cachedResult(ctx, idempKey); cached != nil {
			metrics.LedgerOperations.WithLabelValues(string(op), "replayed").Inc()
			return cached, nil
		}
	}

	m, err := runCommit(ctx, s.cfg, s.log, string(op), func(ctx context.Context) (*mutation, error) {
		// Layer 2: DB idempotency check, repeated per attempt so a retry after
		// a concurrent same-key commit replays instead of applying twice.
		if idempKey != "" {
			prior, err := s.storedResult(ctx, idempKey)
			if err != nil {
				return nil, err
			}
			if prior != nil {
				return &mutation{replayed: prior}, nil
			}
		}

		now := s.clock()
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin tx: %w", err)
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		m, err := apply(ctx, dbTx, now)
		if err != nil {
			// A same-key request may have committed while this one waited on
			// the account lock; its result wins over the rejection it caused.
			if idempKey != "" && apperror.IsRejection(err) {
				if prior, perr := s.storedResult(ctx, idempKey); perr == nil && prior != nil {
					return &mutation{replayed: prior}, nil
				}
			}
			return nil, err
		}

		if idempKey != "" {
			respJSON, err := json.Marshal(m.result())
			if err != nil {
				return nil, fmt.Errorf("marshal response: %w", err)
			}
			if err := s.idempRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
				Key:           idempKey,
				TransactionID: m.txn.ID,
				ResponseJSON:  respJSON,
				CreatedAt:     now,
			}); err != nil {
				return nil, fmt.Errorf("save idempotency log: %w", err)
			}
		}

		if err := dbTx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return m, nil
	})
	if err != nil {
		return nil, s.reject(op, err)
	}

	if m.replayed != nil {
		metrics.LedgerOperations.WithLabelValues(string(op), "replayed").Inc()
		return m.replayed, nil
	}

	result := m.result()
	s.afterCommit(ctx, op, idempKey, result)
	return result, nil
}

// lockAccount creates the account if needed and locks its row.
func (s *LedgerService) lockAccount(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (*domain.Account, error) {
	acct, err := s.accountRepo.GetOrCreateForUpdate(ctx, tx, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if !acct.IsActive {
		return nil, apperror.Validation("Account is inactive")
	}
	return acct, nil
}

// screen computes the fraud signal and enforces it when blocking is enabled.
func (s *LedgerService) screen(ctx context.Context, tx pgx.Tx, accountID string, activity domain.ActivityContext) (domain.FraudSignal, error) {
	signal, err := s.fraud.IsSuspiciousActivity(ctx, tx, accountID, activity)
	if err != nil {
		return domain.FraudSignal{}, err
	}
	if signal.IsSuspicious && s.block {
		return signal, apperror.ErrSuspiciousActivity(signal.Reason)
	}
	return signal, nil
}

// commitTransaction applies txn to the locked account and writes the
// account, the transaction and the audit entry.
func (s *LedgerService) commitTransaction(ctx context.Context, tx pgx.Tx, acct *domain.Account, txn *domain.Transaction, actorID, callerKey string) (*mutation, error) {
	if callerKey != "" {
		key := callerKey
		txn.IdempotencyKey = &key
	}

	before := acct.Snapshot()
	acct.Apply(txn)
	if err := s.accountRepo.Update(ctx, tx, acct); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := s.txRepo.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	entry, err := s.audit.Append(ctx, tx, ports.AuditRecord{
		ActorID:    actorID,
		ActionType: domain.AuditActionWalletUpdate,
		EntityID:   acct.AccountID,
		Before:     before,
		After:      acct.Snapshot(),
		Source:     txn.Source,
		At:         txn.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	return &mutation{account: acct, txn: txn, entry: entry}, nil
}

func (m *mutation) result() *ports.LedgerResult {
	return &ports.LedgerResult{
		Account:      m.account,
		Transaction:  m.txn,
		AuditEntryID: m.entry.ID,
		Fraud:        m.signal,
	}
}

func (s *LedgerService) afterCommit(ctx context.Context, op domain.TransactionType, idempKey string, result *ports.LedgerResult) {
	metrics.LedgerOperations.WithLabelValues(string(op), "ok").Inc()

	// Post-process: cache in Redis (best-effort)
	if idempKey != "" && s.idempCache != nil {
		if respJSON, err := json.Marshal(result); err == nil {
			if err := s.idempCache.Set(ctx, idempKey, respJSON, s.cfg.IdempotencyTTL); err != nil {
				s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
			}
		}
	}

	publishEvent(ctx, s.publisher, s.log, domain.LedgerEvent{
		EventID:       uuid.New(),
		AccountID:     result.Account.AccountID,
		TransactionID: &result.Transaction.ID,
		AuditEntryID:  result.AuditEntryID,
		Type:          result.Transaction.Type,
		Amount:        result.Transaction.Amount,
		Balance:       result.Account.HealCoinBalance,
		OccurredAt:    result.Transaction.CreatedAt,
	})

	s.log.Info().
		Str("tx_id", result.Transaction.ID.String()).
		Str("account_id", result.Account.AccountID).
		Str("type", string(op)).
		Int64("amount", result.Transaction.Amount).
		Int64("balance", result.Account.HealCoinBalance).
		Bool("suspicious", result.Fraud.IsSuspicious).
		Msg("ledger transaction committed")
}

// cachedResult is the Redis fast path; failures fall through to the DB.
func (s *LedgerService) cachedResult(ctx context.Context, key string) *ports.LedgerResult {
	if s.idempCache == nil {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
		return nil
	}
	if cached == nil {
		return nil
	}
	res, err := unmarshalLedgerResult(cached)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable cached result")
		return nil
	}
	return res
}

// storedResult returns the committed result for key if it is still within the TTL.
func (s *LedgerService) storedResult(ctx context.Context, key string) (*ports.LedgerResult, error) {
	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("db idempotency check: %w", err)
	}
	if idempLog == nil || s.clock().Sub(idempLog.CreatedAt) >= s.cfg.IdempotencyTTL {
		return nil, nil
	}
	return unmarshalLedgerResult(idempLog.ResponseJSON)
}

func unmarshalLedgerResult(data []byte) (*ports.LedgerResult, error) {
	res := &ports.LedgerResult{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("unmarshal cached result: %w", err)
	}
	res.Replayed = true
	return res, nil
}

// reject counts a failed operation and passes the error through.
func (s *LedgerService) reject(op domain.TransactionType, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && apperror.IsRejection(err) {
		metrics.LedgerOperations.WithLabelValues(string(op), "rejected").Inc()
		metrics.LedgerRejections.WithLabelValues(appErr.Code).Inc()
		s.log.Info().Str("op", string(op)).Str("code", appErr.Code).Msg(appErr.Message)
		return err
	}
	metrics.LedgerOperations.WithLabelValues(string(op), "failed").Inc()
	return err
}

func (s *LedgerService) actor(actorID string) string {
	if actorID == "" {
		return s.cfg.SystemActorID
	}
	return actorID
}

// clock returns now at the storage layer's timestamp precision.
func (s *LedgerService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// publishEvent emits an event; failures are logged and never returned.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, log zerolog.Logger, event domain.LedgerEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("account_id", event.AccountID).Msg("failed to publish ledger event")
	}
}
