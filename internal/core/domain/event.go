package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEvent is published after a ledger mutation commits.
type LedgerEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AccountID     string          `json:"account_id"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	AuditEntryID  uuid.UUID       `json:"audit_entry_id"`
	Type          TransactionType `json:"type,omitempty"`
	Amount        int64           `json:"amount"`
	Balance       int64           `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
