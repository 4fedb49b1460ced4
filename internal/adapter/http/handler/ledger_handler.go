package handler

import (
	"net"
	"strconv"

	"healcoin-ledger/internal/adapter/http/dto"
	"healcoin-ledger/internal/adapter/http/middleware"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/pkg/apperror"
	"healcoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxIdempotencyKeyLen = 128

// LedgerHandler handles account balance endpoints.
type LedgerHandler struct {
	ledger ports.LedgerService
	fraud  ports.FraudService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger ports.LedgerService, fraud ports.FraudService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, fraud: fraud}
}

// GetBalance handles GET /api/v1/accounts/:id/balance.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.ledger.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToBalanceResponse(acct))
}

// Earn handles POST /api/v1/accounts/:id/earn.
func (h *LedgerHandler) Earn(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req dto.EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.Earn(c.Request.Context(), ports.EarnRequest{
		AccountID:      accountID,
		Amount:         req.Amount,
		Source:         req.Source,
		Description:    req.Description,
		Metadata:       req.Metadata,
		ActorID:        c.GetString(middleware.CtxSubject),
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondLedger(c, result)
}

// Redeem handles POST /api/v1/accounts/:id/redeem.
func (h *LedgerHandler) Redeem(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.Redeem(c.Request.Context(), ports.RedeemRequest{
		AccountID:      accountID,
		Amount:         req.Amount,
		RewardID:       req.RewardID,
		ActorID:        c.GetString(middleware.CtxSubject),
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondLedger(c, result)
}

// Refund handles POST /api/v1/accounts/:id/refunds (admin).
func (h *LedgerHandler) Refund(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.CreditRefund(c.Request.Context(), ports.RefundRequest{
		AccountID:      accountID,
		Amount:         req.Amount,
		Reason:         req.Reason,
		ActorID:        c.GetString(middleware.CtxSubject),
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondLedger(c, result)
}

// RecordLogin handles POST /api/v1/accounts/:id/logins.
func (h *LedgerHandler) RecordLogin(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	ip := req.IPAddress
	if ip == "" {
		ip = c.ClientIP()
	}
	if net.ParseIP(ip) == nil {
		ip = ""
	}

	signal, err := h.fraud.RecordLogin(c.Request.Context(), accountID, domain.LoginContext{
		DeviceID:  req.DeviceID,
		IPAddress: ip,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, signal)
}

// ListTransactions handles GET /api/v1/accounts/:id/transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	accountID, ok := accountParam(c, "id")
	if !ok {
		return
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	txns, err := h.ledger.ListTransactions(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	response.OK(c, txns)
}

func respondLedger(c *gin.Context, result *ports.LedgerResult) {
	if result.Replayed {
		response.OK(c, dto.ToLedgerResponse(result))
		return
	}
	response.Created(c, dto.ToLedgerResponse(result))
}

func accountParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !dto.ValidAccountID(id) {
		response.Error(c, apperror.Validation("invalid account id"))
		return "", false
	}
	return id, true
}

func idempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(middleware.HeaderIdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters"))
		return "", false
	}
	return key, true
}

func limitQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		response.Error(c, apperror.Validation("limit must be a non-negative integer"))
		return 0, false
	}
	return limit, true
}
