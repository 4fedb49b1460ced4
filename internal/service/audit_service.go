package service

import (
	"context"
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
)

// AuditService implements ports.AuditTrail. Entries are chained per entity:
// each entry stores the hash of its predecessor.
type AuditService struct {
	auditRepo   ports.AuditRepository
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	hasher      ports.AuditHasher
	publisher   ports.EventPublisher
	cfg         config.LedgerConfig
	now         func() time.Time
	log         zerolog.Logger
}

// NewAuditService creates a new AuditService. publisher may be nil.
func NewAuditService(
	auditRepo ports.AuditRepository,
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	hasher ports.AuditHasher,
	publisher ports.EventPublisher,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *AuditService {
	return &AuditService{
		auditRepo:   auditRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		hasher:      hasher,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
		log:         log,
	}
}

// Append links a new entry to the entity's chain inside tx.
func (s *AuditService) Append(ctx context.Context, tx pgx.Tx, rec ports.AuditRecord) (*domain.AuditEntry, error) {
	last, err := s.auditRepo.GetLast(ctx, tx, rec.EntityID)
	if err != nil {
		return nil, fmt.Errorf("load last audit entry: %w", err)
	}

	at := rec.At
	if at.IsZero() {
		at = s.now().UTC().Truncate(time.Microsecond)
	}

	entry := &domain.AuditEntry{
		ID:              uuid.New(),
		ActorID:         rec.ActorID,
		ActionType:      rec.ActionType,
		EntityID:        rec.EntityID,
		Before:          rec.Before,
		After:           rec.After,
		Source:          rec.Source,
		ReversesEntryID: rec.ReversesEntryID,
		CreatedAt:       at,
	}
	if last != nil {
		entry.PreviousHash = last.Hash
	}

	hash, err := s.hasher.Hash(entry)
	if err != nil {
		return nil, fmt.Errorf("hash audit entry: %w", err)
	}
	entry.Hash = hash

	if err := s.auditRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("create audit entry: %w", err)
	}
	return entry, nil
}

// Reverse restores the account to the entry's before snapshot. The balance
// difference is booked as a compensating transaction so the account balance
// keeps matching its transaction history.
func (s *AuditService) Reverse(ctx context.Context, actorID string, entryID uuid.UUID) (*domain.ReversalResult, error) {
	if actorID == "" {
		return nil, apperror.Validation("actor_id is required")
	}

	entry, err := s.auditRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("get audit entry: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("audit entry")
	}
	if !entry.IsReversible() {
		return nil, apperror.ErrNotReversible("Only wallet updates can be reversed")
	}

	result, err := runCommit(ctx, s.cfg, s.log, "reversal", func(ctx context.Context) (*domain.ReversalResult, error) {
		now := s.now().UTC().Truncate(time.Microsecond)

		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin tx: %w", err)
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		acct, err := s.accountRepo.GetOrCreateForUpdate(ctx, dbTx, entry.EntityID, now)
		if err != nil {
			return nil, fmt.Errorf("lock account: %w", err)
		}

		reversed, err := s.auditRepo.HasReversal(ctx, dbTx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("check reversal: %w", err)
		}
		if reversed {
			return nil, apperror.ErrNotReversible("Audit entry already reversed")
		}

		current := acct.Snapshot()
		target := entry.Before

		var txn *domain.Transaction
		if delta := target.HealCoinBalance - current.HealCoinBalance; delta != 0 {
			txn = &domain.Transaction{
				ID:          uuid.New(),
				AccountID:   acct.AccountID,
				Type:        domain.TransactionTypeReversalCredit,
				Amount:      delta,
				Source:      "reversal:" + entry.ID.String(),
				Description: "Administrative reversal",
				CreatedAt:   now,
			}
			if delta < 0 {
				txn.Type = domain.TransactionTypeReversalDebit
				txn.Amount = -delta
			}
			if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
				return nil, fmt.Errorf("create reversal transaction: %w", err)
			}
		}

		acct.Restore(target)
		acct.LastTransactionAt = &now
		acct.UpdatedAt = now
		if err := s.accountRepo.Update(ctx, dbTx, acct); err != nil {
			return nil, fmt.Errorf("restore account: %w", err)
		}

		reversedID := entry.ID
		rev, err := s.Append(ctx, dbTx, ports.AuditRecord{
			ActorID:         actorID,
			ActionType:      domain.AuditActionWalletReversal,
			EntityID:        acct.AccountID,
			Before:          current,
			After:           target,
			Source:          "reversal",
			ReversesEntryID: &reversedID,
			At:              now,
		})
		if err != nil {
			return nil, err
		}

		if err := dbTx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return &domain.ReversalResult{Account: acct, ReversalEntry: rev, Transaction: txn}, nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && apperror.IsRejection(err) {
			metrics.LedgerRejections.WithLabelValues(appErr.Code).Inc()
		}
		metrics.LedgerOperations.WithLabelValues("reversal", outcome(err)).Inc()
		return nil, err
	}
	metrics.LedgerOperations.WithLabelValues("reversal", "ok").Inc()

	event := domain.LedgerEvent{
		EventID:      uuid.New(),
		AccountID:    result.Account.AccountID,
		AuditEntryID: result.ReversalEntry.ID,
		Balance:      result.Account.HealCoinBalance,
		OccurredAt:   result.ReversalEntry.CreatedAt,
	}
	if result.Transaction != nil {
		event.TransactionID = &result.Transaction.ID
		event.Type = result.Transaction.Type
		event.Amount = result.Transaction.Amount
	}
	publishEvent(ctx, s.publisher, s.log, event)

	s.log.Info().
		Str("actor_id", actorID).
		Str("account_id", result.Account.AccountID).
		Str("reversed_entry_id", entryID.String()).
		Str("reversal_entry_id", result.ReversalEntry.ID.String()).
		Int64("balance", result.Account.HealCoinBalance).
		Msg("audit entry reversed")

	return result, nil
}

// VerifyChain recomputes every hash and link of the entity's chain.
func (s *AuditService) VerifyChain(ctx context.Context, entityID string) (*domain.ChainReport, error) {
	if entityID == "" {
		return nil, apperror.Validation("entity_id is required")
	}

	entries, err := s.auditRepo.ListChain(ctx, entityID)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("list audit chain: %w", err))
	}

	report := &domain.ChainReport{EntityID: entityID, EntriesTotal: len(entries), Valid: true}
	prev := ""
	for i := range entries {
		e := &entries[i]
		if e.PreviousHash != prev {
			return broken(report, e, "previous hash does not match preceding entry"), nil
		}
		hash, err := s.hasher.Hash(e)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("hash audit entry: %w", err))
		}
		if hash != e.Hash {
			return broken(report, e, "stored hash does not match entry content"), nil
		}
		prev = e.Hash
	}
	return report, nil
}

func broken(report *domain.ChainReport, e *domain.AuditEntry, reason string) *domain.ChainReport {
	id := e.ID
	report.Valid = false
	report.BrokenEntryID = &id
	report.Reason = reason
	return report
}

// List returns the entity's newest audit entries first.
func (s *AuditService) List(ctx context.Context, entityID string, limit int) ([]domain.AuditEntry, error) {
	if entityID == "" {
		return nil, apperror.Validation("entity_id is required")
	}
	entries, err := s.auditRepo.ListByEntity(ctx, entityID, clampLimit(limit))
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("list audit entries: %w", err))
	}
	return entries, nil
}

func outcome(err error) string {
	if apperror.IsRejection(err) {
		return "rejected"
	}
	return "failed"
}
