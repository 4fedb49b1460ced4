package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance movement.
type TransactionType string

const (
	TransactionTypeEarn   TransactionType = "earn"
	TransactionTypeRedeem TransactionType = "redeem"
	TransactionTypeRefund TransactionType = "refund"
	TransactionTypeBonus  TransactionType = "bonus"
	// Compensating entries written by an administrative audit reversal.
	TransactionTypeReversalCredit TransactionType = "reversal_credit"
	TransactionTypeReversalDebit  TransactionType = "reversal_debit"
)

// Transaction is an immutable record of one balance mutation.
type Transaction struct {
	ID             uuid.UUID         `json:"id"`
	AccountID      string            `json:"account_id"`
	Type           TransactionType   `json:"type"`
	Amount         int64             `json:"amount"` // Always positive; direction comes from Type
	Source         string            `json:"source"`
	Description    string            `json:"description,omitempty"`
	RewardID       *string           `json:"reward_id,omitempty"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// IsCredit returns true if the transaction adds to the balance.
func (t *Transaction) IsCredit() bool {
	switch t.Type {
	case TransactionTypeEarn, TransactionTypeBonus, TransactionTypeRefund, TransactionTypeReversalCredit:
		return true
	}
	return false
}

// SignedAmount returns the balance delta of the transaction.
func (t *Transaction) SignedAmount() int64 {
	if t.IsCredit() {
		return t.Amount
	}
	return -t.Amount
}

// CountsTowardVelocity reports whether the transaction is user-initiated
// earn/redeem activity.
func (t *Transaction) CountsTowardVelocity() bool {
	return t.Type == TransactionTypeEarn || t.Type == TransactionTypeRedeem
}
