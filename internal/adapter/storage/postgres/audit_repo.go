package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"healcoin-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const auditColumns = `id, actor_id, action_type, entity_id, before_state, after_state, source,
		reverses_entry_id, hash, previous_hash, created_at`

// AuditRepo implements ports.AuditRepository. Chain order is the seq column.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends an entry within a database transaction.
func (r *AuditRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.AuditEntry) error {
	before, err := json.Marshal(e.Before)
	if err != nil {
		return fmt.Errorf("marshal before state: %w", err)
	}
	after, err := json.Marshal(e.After)
	if err != nil {
		return fmt.Errorf("marshal after state: %w", err)
	}

	query := `INSERT INTO audit_entries (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		e.ID, e.ActorID, e.ActionType, e.EntityID, before, after, e.Source,
		e.ReversesEntryID, e.Hash, e.PreviousHash, e.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert audit entry", err)
	}
	return nil
}

// GetByID fetches an entry by UUID.
func (r *AuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditEntry, error) {
	return scanAuditEntry(r.pool.QueryRow(ctx, `SELECT `+auditColumns+` FROM audit_entries WHERE id = $1`, id))
}

// GetLast fetches the newest entry of the entity's chain.
func (r *AuditRepo) GetLast(ctx context.Context, tx pgx.Tx, entityID string) (*domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries
		WHERE entity_id = $1 ORDER BY seq DESC LIMIT 1`
	return scanAuditEntry(on(tx, r.pool).QueryRow(ctx, query, entityID))
}

// HasReversal reports whether a reversal entry for entryID exists.
func (r *AuditRepo) HasReversal(ctx context.Context, tx pgx.Tx, entryID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM audit_entries WHERE reverses_entry_id = $1)`

	var exists bool
	if err := on(tx, r.pool).QueryRow(ctx, query, entryID).Scan(&exists); err != nil {
		return false, wrapErr("check reversal exists", err)
	}
	return exists, nil
}

// ListByEntity fetches the newest entries first.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityID string, limit int) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries
		WHERE entity_id = $1 ORDER BY seq DESC LIMIT $2`
	return r.list(ctx, query, entityID, limit)
}

// ListChain fetches every entry of the entity in append order.
func (r *AuditRepo) ListChain(ctx context.Context, entityID string) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries
		WHERE entity_id = $1 ORDER BY seq ASC`
	return r.list(ctx, query, entityID)
}

func (r *AuditRepo) list(ctx context.Context, query string, args ...any) ([]domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list audit entries", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(row pgx.Row) (*domain.AuditEntry, error) {
	e := &domain.AuditEntry{}
	var before, after []byte
	err := row.Scan(
		&e.ID, &e.ActorID, &e.ActionType, &e.EntityID, &before, &after, &e.Source,
		&e.ReversesEntryID, &e.Hash, &e.PreviousHash, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("scan audit entry", err)
	}
	if err := json.Unmarshal(before, &e.Before); err != nil {
		return nil, fmt.Errorf("unmarshal before state: %w", err)
	}
	if err := json.Unmarshal(after, &e.After); err != nil {
		return nil, fmt.Errorf("unmarshal after state: %w", err)
	}
	return e, nil
}
