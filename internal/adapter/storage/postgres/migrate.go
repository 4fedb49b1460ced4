package postgres

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		account_id          TEXT PRIMARY KEY,
		heal_coin_balance   BIGINT NOT NULL DEFAULT 0 CHECK (heal_coin_balance >= 0),
		inr_balance         NUMERIC(18, 2) NOT NULL DEFAULT 0,
		total_earned        BIGINT NOT NULL DEFAULT 0,
		total_redeemed      BIGINT NOT NULL DEFAULT 0,
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		last_transaction_at TIMESTAMPTZ,
		version             BIGINT NOT NULL DEFAULT 0,
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id              UUID PRIMARY KEY,
		account_id      TEXT NOT NULL REFERENCES accounts (account_id),
		type            TEXT NOT NULL,
		amount          BIGINT NOT NULL CHECK (amount > 0),
		source          TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		reward_id       TEXT,
		idempotency_key TEXT,
		metadata        JSONB,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_created
		ON transactions (account_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS usage_counters (
		account_id       TEXT PRIMARY KEY REFERENCES accounts (account_id),
		daily_earned     BIGINT NOT NULL DEFAULT 0,
		daily_redeemed   BIGINT NOT NULL DEFAULT 0,
		monthly_redeemed BIGINT NOT NULL DEFAULT 0,
		period_anchor    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_entries (
		seq               BIGSERIAL UNIQUE,
		id                UUID PRIMARY KEY,
		actor_id          TEXT NOT NULL,
		action_type       TEXT NOT NULL,
		entity_id         TEXT NOT NULL,
		before_state      JSONB NOT NULL,
		after_state       JSONB NOT NULL,
		source            TEXT NOT NULL DEFAULT '',
		reverses_entry_id UUID UNIQUE REFERENCES audit_entries (id),
		hash              TEXT NOT NULL,
		previous_hash     TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_entity_seq ON audit_entries (entity_id, seq)`,
	`CREATE TABLE IF NOT EXISTS idempotency_logs (
		key            TEXT PRIMARY KEY,
		transaction_id UUID NOT NULL,
		response_json  JSONB NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rewards (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		cost      BIGINT NOT NULL CHECK (cost > 0),
		stock     BIGINT CHECK (stock >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS login_history (
		id         BIGSERIAL PRIMARY KEY,
		account_id TEXT NOT NULL,
		device_id  TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_login_history_account_created
		ON login_history (account_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS carbon_action_logs (
		id          BIGSERIAL PRIMARY KEY,
		account_id  TEXT NOT NULL,
		action_type TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_submissions (
		id         BIGSERIAL PRIMARY KEY,
		account_id TEXT NOT NULL,
		game_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the ledger tables if they do not exist.
func Migrate(ctx context.Context, pool Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
