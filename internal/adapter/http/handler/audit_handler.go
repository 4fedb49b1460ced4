package handler

import (
	"healcoin-ledger/internal/adapter/http/dto"
	"healcoin-ledger/internal/adapter/http/middleware"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/pkg/apperror"
	"healcoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler handles the administrative audit endpoints.
type AuditHandler struct {
	audit ports.AuditTrail
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit ports.AuditTrail) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/v1/admin/audit/:accountId.
func (h *AuditHandler) List(c *gin.Context) {
	accountID, ok := accountParam(c, "accountId")
	if !ok {
		return
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	entries, err := h.audit.List(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	response.OK(c, entries)
}

// Verify handles GET /api/v1/admin/audit/:accountId/verify.
func (h *AuditHandler) Verify(c *gin.Context) {
	accountID, ok := accountParam(c, "accountId")
	if !ok {
		return
	}

	report, err := h.audit.VerifyChain(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToChainReportResponse(report))
}

// Reverse handles POST /api/v1/admin/audit/entries/:entryId/reverse.
func (h *AuditHandler) Reverse(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid audit entry id"))
		return
	}

	result, err := h.audit.Reverse(c.Request.Context(), c.GetString(middleware.CtxSubject), entryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"balance":        dto.ToBalanceResponse(result.Account),
		"reversal_entry": result.ReversalEntry,
		"transaction":    result.Transaction,
	})
}
