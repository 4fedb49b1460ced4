package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"healcoin-ledger/internal/core/domain"
)

// SHA256AuditHasher implements ports.AuditHasher.
// The hash is hex(SHA-256(canonical JSON of the immutable fields + previous hash)).
type SHA256AuditHasher struct{}

// NewSHA256AuditHasher creates a new audit hasher.
func NewSHA256AuditHasher() *SHA256AuditHasher {
	return &SHA256AuditHasher{}
}

// canonicalSnapshot fixes field order and number formatting.
type canonicalSnapshot struct {
	HealCoinBalance int64  `json:"heal_coin_balance"`
	InrBalance      string `json:"inr_balance"`
	TotalEarned     int64  `json:"total_earned"`
	TotalRedeemed   int64  `json:"total_redeemed"`
	IsActive        bool   `json:"is_active"`
}

type canonicalEntry struct {
	ID              string            `json:"id"`
	ActorID         string            `json:"actor_id"`
	ActionType      string            `json:"action_type"`
	EntityID        string            `json:"entity_id"`
	Before          canonicalSnapshot `json:"before"`
	After           canonicalSnapshot `json:"after"`
	Source          string            `json:"source"`
	ReversesEntryID string            `json:"reverses_entry_id"`
	CreatedAt       string            `json:"created_at"`
	PreviousHash    string            `json:"previous_hash"`
}

// Hash computes the entry hash. The entry's own Hash field is ignored.
func (h *SHA256AuditHasher) Hash(e *domain.AuditEntry) (string, error) {
	doc := canonicalEntry{
		ID:           e.ID.String(),
		ActorID:      e.ActorID,
		ActionType:   string(e.ActionType),
		EntityID:     e.EntityID,
		Before:       canonical(e.Before),
		After:        canonical(e.After),
		Source:       e.Source,
		CreatedAt:    e.CreatedAt.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano),
		PreviousHash: e.PreviousHash,
	}
	if e.ReversesEntryID != nil {
		doc.ReversesEntryID = e.ReversesEntryID.String()
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal audit entry: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func canonical(s domain.AccountSnapshot) canonicalSnapshot {
	return canonicalSnapshot{
		HealCoinBalance: s.HealCoinBalance,
		InrBalance:      s.InrBalance.String(),
		TotalEarned:     s.TotalEarned,
		TotalRedeemed:   s.TotalRedeemed,
		IsActive:        s.IsActive,
	}
}
