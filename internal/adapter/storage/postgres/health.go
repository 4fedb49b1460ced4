package postgres

import (
	"context"
	"errors"
)

// HealthCheck reports PostgreSQL as healthy when it answers and the ledger
// schema is in place.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping checks connectivity and that the accounts and audit tables exist.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var ready bool
	err := h.pool.QueryRow(ctx,
		`SELECT to_regclass('accounts') IS NOT NULL AND to_regclass('audit_entries') IS NOT NULL`,
	).Scan(&ready)
	if err != nil {
		return wrapErr("health", err)
	}
	if !ready {
		return errors.New("ledger schema not migrated")
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgres"
}
