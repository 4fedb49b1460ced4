package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditActionType represents the type of audited mutation.
type AuditActionType string

const (
	AuditActionWalletUpdate   AuditActionType = "walletUpdate"
	AuditActionWalletReversal AuditActionType = "walletReversal"
)

// AuditEntry is an append-only before/after record of one account mutation,
// chained to the previous entry of the same entity through PreviousHash.
type AuditEntry struct {
	ID              uuid.UUID       `json:"id"`
	ActorID         string          `json:"actor_id"`
	ActionType      AuditActionType `json:"action_type"`
	EntityID        string          `json:"entity_id"`
	Before          AccountSnapshot `json:"before"`
	After           AccountSnapshot `json:"after"`
	Source          string          `json:"source"`
	ReversesEntryID *uuid.UUID      `json:"reverses_entry_id,omitempty"`
	Hash            string          `json:"hash"`
	PreviousHash    string          `json:"previous_hash"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsReversible returns true if an administrator may roll this entry back.
func (e *AuditEntry) IsReversible() bool {
	return e.ActionType == AuditActionWalletUpdate
}

// ReversalResult describes a completed administrative reversal.
type ReversalResult struct {
	Account       *Account     `json:"account"`
	ReversalEntry *AuditEntry  `json:"reversal_entry"`
	Transaction   *Transaction `json:"transaction,omitempty"` // nil when the balance was already at the snapshot
}

// ChainReport is the outcome of re-verifying an entity's audit chain.
type ChainReport struct {
	EntityID      string     `json:"entity_id"`
	EntriesTotal  int        `json:"entries_total"`
	Valid         bool       `json:"valid"`
	BrokenEntryID *uuid.UUID `json:"broken_entry_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}
