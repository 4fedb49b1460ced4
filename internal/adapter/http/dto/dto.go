package dto

import (
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
)

// EarnRequest is the request body for crediting earned HealCoins.
type EarnRequest struct {
	Amount      int64             `json:"amount" binding:"required,gt=0"`
	Source      string            `json:"source" binding:"required,max=64,safe_id"`
	Description string            `json:"description,omitempty" binding:"max=255"`
	Metadata    map[string]string `json:"metadata,omitempty" binding:"max=16"`
}

// RedeemRequest is the request body for a redemption. Either Amount or
// RewardID must be set; with a reward the amount defaults to its cost and,
// when given, must equal it.
type RedeemRequest struct {
	Amount   int64  `json:"amount,omitempty" binding:"gte=0,required_without=RewardID"`
	RewardID string `json:"reward_id,omitempty" binding:"omitempty,max=64,safe_id"`
}

// RefundRequest is the request body for an administrative refund credit.
type RefundRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// LoginRequest reports a login for device and geo screening.
type LoginRequest struct {
	DeviceID  string `json:"device_id" binding:"required,max=128"`
	IPAddress string `json:"ip_address,omitempty" binding:"omitempty,ip"`
}

// BalanceResponse is the response body for a balance read.
type BalanceResponse struct {
	AccountID         string     `json:"account_id"`
	HealCoinBalance   int64      `json:"heal_coin_balance"`
	InrBalance        string     `json:"inr_balance"`
	TotalEarned       int64      `json:"total_earned"`
	TotalRedeemed     int64      `json:"total_redeemed"`
	IsActive          bool       `json:"is_active"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}

// LedgerResponse is the response body of every balance mutation.
type LedgerResponse struct {
	Balance      BalanceResponse     `json:"balance"`
	Transaction  *domain.Transaction `json:"transaction"`
	AuditEntryID string              `json:"audit_entry_id"`
	Fraud        domain.FraudSignal  `json:"fraud"`
	Replayed     bool                `json:"replayed"`
}

// ToBalanceResponse maps an account to its public view.
func ToBalanceResponse(a *domain.Account) BalanceResponse {
	return BalanceResponse{
		AccountID:         a.AccountID,
		HealCoinBalance:   a.HealCoinBalance,
		InrBalance:        a.InrBalance.StringFixed(2),
		TotalEarned:       a.TotalEarned,
		TotalRedeemed:     a.TotalRedeemed,
		IsActive:          a.IsActive,
		LastTransactionAt: a.LastTransactionAt,
	}
}

// ToLedgerResponse maps a ledger result to its public view.
func ToLedgerResponse(r *ports.LedgerResult) LedgerResponse {
	return LedgerResponse{
		Balance:      ToBalanceResponse(r.Account),
		Transaction:  r.Transaction,
		AuditEntryID: r.AuditEntryID.String(),
		Fraud:        r.Fraud,
		Replayed:     r.Replayed,
	}
}

// ChainReportResponse is the response body for an audit chain verification.
type ChainReportResponse struct {
	EntityID      string  `json:"entity_id"`
	EntriesTotal  int     `json:"entries_total"`
	Valid         bool    `json:"valid"`
	BrokenEntryID *string `json:"broken_entry_id,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// ToChainReportResponse maps a chain report to its public view.
func ToChainReportResponse(r *domain.ChainReport) ChainReportResponse {
	out := ChainReportResponse{
		EntityID:     r.EntityID,
		EntriesTotal: r.EntriesTotal,
		Valid:        r.Valid,
		Reason:       r.Reason,
	}
	if r.BrokenEntryID != nil {
		id := r.BrokenEntryID.String()
		out.BrokenEntryID = &id
	}
	return out
}
