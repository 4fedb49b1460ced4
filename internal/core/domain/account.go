package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds one user's or organisation's HealCoin and INR balances.
// It is mutated only through ledger operations.
type Account struct {
	AccountID         string          `json:"account_id"`
	HealCoinBalance   int64           `json:"heal_coin_balance"`
	InrBalance        decimal.Decimal `json:"inr_balance"`
	TotalEarned       int64           `json:"total_earned"`
	TotalRedeemed     int64           `json:"total_redeemed"`
	IsActive          bool            `json:"is_active"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty"`
	Version           int64           `json:"version"` // Bumped on every write; guards compare-and-swap updates
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewAccount returns a zero-balance active account.
func NewAccount(accountID string, now time.Time) *Account {
	return &Account{
		AccountID:  accountID,
		InrBalance: decimal.Zero,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AccountSnapshot is the audited part of an account state.
type AccountSnapshot struct {
	HealCoinBalance int64           `json:"heal_coin_balance"`
	InrBalance      decimal.Decimal `json:"inr_balance"`
	TotalEarned     int64           `json:"total_earned"`
	TotalRedeemed   int64           `json:"total_redeemed"`
	IsActive        bool            `json:"is_active"`
}

// Snapshot captures the audited fields of the account.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		HealCoinBalance: a.HealCoinBalance,
		InrBalance:      a.InrBalance,
		TotalEarned:     a.TotalEarned,
		TotalRedeemed:   a.TotalRedeemed,
		IsActive:        a.IsActive,
	}
}

// Restore overwrites the audited fields with a snapshot.
func (a *Account) Restore(s AccountSnapshot) {
	a.HealCoinBalance = s.HealCoinBalance
	a.InrBalance = s.InrBalance
	a.TotalEarned = s.TotalEarned
	a.TotalRedeemed = s.TotalRedeemed
	a.IsActive = s.IsActive
}

// Apply mutates the balance and totals for one committed transaction.
func (a *Account) Apply(t *Transaction) {
	a.HealCoinBalance += t.SignedAmount()
	switch t.Type {
	case TransactionTypeEarn, TransactionTypeBonus:
		a.TotalEarned += t.Amount
	case TransactionTypeRedeem:
		a.TotalRedeemed += t.Amount
	}
	at := t.CreatedAt
	a.LastTransactionAt = &at
	a.UpdatedAt = t.CreatedAt
}
