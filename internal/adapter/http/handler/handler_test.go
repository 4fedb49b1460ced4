package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healcoin-ledger/internal/adapter/http/middleware"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/internal/core/ports/mocks"
	"healcoin-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func withAccount(c *gin.Context, param, id string) {
	c.Params = gin.Params{{Key: param, Value: id}}
}

func asUser(c *gin.Context, subject, role string) {
	c.Set(middleware.CtxSubject, subject)
	c.Set(middleware.CtxRole, role)
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func testAccount(id string, balance int64) *domain.Account {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:       id,
		HealCoinBalance: balance,
		InrBalance:      decimal.NewFromInt(balance).Div(decimal.NewFromInt(10)),
		TotalEarned:     balance,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// --- Ledger Handler Tests ---

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().GetBalance(gomock.Any(), "user-1").Return(testAccount("user-1", 150), nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts/user-1/balance", nil)
	withAccount(c, "id", "user-1")
	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "user-1", data["account_id"])
	assert.EqualValues(t, 150, data["heal_coin_balance"])
	assert.Equal(t, "15.00", data["inr_balance"])
}

func TestGetBalance_InvalidAccountID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/accounts/bad%20id/balance", nil)
	withAccount(c, "id", "bad id<script>")
	h.GetBalance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decode(t, w).ErrorCode)
}

func TestEarn_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	auditID := uuid.New()
	ledger.EXPECT().Earn(gomock.Any(), ports.EarnRequest{
		AccountID:      "user-1",
		Amount:         50,
		Source:         "step_challenge",
		Metadata:       map[string]string{"steps": "10000"},
		ActorID:        "steps-svc",
		IdempotencyKey: "earn-001",
	}).Return(&ports.LedgerResult{
		Account:      testAccount("user-1", 50),
		Transaction:  &domain.Transaction{ID: uuid.New(), AccountID: "user-1", Type: domain.TransactionTypeEarn, Amount: 50},
		AuditEntryID: auditID,
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/earn", map[string]interface{}{
		"amount":   50,
		"source":   "step_challenge",
		"metadata": map[string]string{"steps": "10000"},
	})
	c.Request.Header.Set(middleware.HeaderIdempotencyKey, "earn-001")
	withAccount(c, "id", "user-1")
	asUser(c, "steps-svc", ports.RoleService)
	h.Earn(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, auditID.String(), data["audit_entry_id"])
	assert.Equal(t, false, data["replayed"])
}

func TestEarn_ReplayReturnsOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().Earn(gomock.Any(), gomock.Any()).Return(&ports.LedgerResult{
		Account:  testAccount("user-1", 50),
		Replayed: true,
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/earn", map[string]interface{}{
		"amount": 50, "source": "step_challenge",
	})
	c.Request.Header.Set(middleware.HeaderIdempotencyKey, "earn-001")
	withAccount(c, "id", "user-1")
	h.Earn(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEarn_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero amount", map[string]interface{}{"amount": 0, "source": "steps"}},
		{"negative amount", map[string]interface{}{"amount": -5, "source": "steps"}},
		{"missing source", map[string]interface{}{"amount": 10}},
		{"unsafe source", map[string]interface{}{"amount": 10, "source": "steps; drop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

			c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/earn", tt.body)
			withAccount(c, "id", "user-1")
			h.Earn(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperror.CodeValidation, decode(t, w).ErrorCode)
		})
	}
}

func TestEarn_IdempotencyKeyTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/earn", map[string]interface{}{
		"amount": 10, "source": "steps",
	})
	c.Request.Header.Set(middleware.HeaderIdempotencyKey, string(bytes.Repeat([]byte("k"), 129)))
	withAccount(c, "id", "user-1")
	h.Earn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEarn_CapExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().Earn(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrCapExceeded("Daily earn cap of 1000 HealCoins exceeded"))

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/earn", map[string]interface{}{
		"amount": 100, "source": "steps",
	})
	withAccount(c, "id", "user-1")
	h.Earn(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Equal(t, apperror.CodeCapExceeded, env.ErrorCode)
	assert.Equal(t, "Daily earn cap of 1000 HealCoins exceeded", env.Message)
}

func TestRedeem_ByReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().Redeem(gomock.Any(), ports.RedeemRequest{
		AccountID: "user-1",
		RewardID:  "voucher-10",
		ActorID:   "user-1",
	}).Return(&ports.LedgerResult{Account: testAccount("user-1", 40)}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/redeem", map[string]interface{}{
		"reward_id": "voucher-10",
	})
	withAccount(c, "id", "user-1")
	asUser(c, "user-1", ports.RoleUser)
	h.Redeem(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRedeem_RequiresAmountOrReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/redeem", map[string]interface{}{})
	withAccount(c, "id", "user-1")
	h.Redeem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedeem_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().Redeem(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientBalance())

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/redeem", map[string]interface{}{"amount": 1000})
	withAccount(c, "id", "user-1")
	h.Redeem(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, apperror.CodeInsufficientBalance, decode(t, w).ErrorCode)
}

func TestRefund_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().CreditRefund(gomock.Any(), ports.RefundRequest{
		AccountID: "user-1",
		Amount:    25,
		Reason:    "order cancelled",
		ActorID:   "admin-1",
	}).Return(&ports.LedgerResult{Account: testAccount("user-1", 25)}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/refunds", map[string]interface{}{
		"amount": 25, "reason": "order cancelled",
	})
	withAccount(c, "id", "user-1")
	asUser(c, "admin-1", ports.RoleAdmin)
	h.Refund(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecordLogin_Suspicious(t *testing.T) {
	ctrl := gomock.NewController(t)
	fraud := mocks.NewMockFraudService(ctrl)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), fraud)

	fraud.EXPECT().RecordLogin(gomock.Any(), "user-1", domain.LoginContext{
		DeviceID:  "device-9",
		IPAddress: "203.0.113.7",
	}).Return(domain.Suspicious(domain.ReasonMultipleDevices), nil)

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/logins", map[string]interface{}{
		"device_id": "device-9", "ip_address": "203.0.113.7",
	})
	withAccount(c, "id", "user-1")
	h.RecordLogin(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var signal domain.FraudSignal
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &signal))
	assert.True(t, signal.IsSuspicious)
	assert.Equal(t, domain.ReasonMultipleDevices, signal.Reason)
}

func TestRecordLogin_InvalidIP(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/accounts/user-1/logins", map[string]interface{}{
		"device_id": "device-9", "ip_address": "not-an-ip",
	})
	withAccount(c, "id", "user-1")
	h.RecordLogin(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(ledger, mocks.NewMockFraudService(ctrl))

	ledger.EXPECT().ListTransactions(gomock.Any(), "user-1", 5).Return(nil, nil)

	c, w := newContext(http.MethodGet, "/api/v1/accounts/user-1/transactions?limit=5", nil)
	withAccount(c, "id", "user-1")
	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestListTransactions_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewLedgerHandler(mocks.NewMockLedgerService(ctrl), mocks.NewMockFraudService(ctrl))

	c, w := newContext(http.MethodGet, "/api/v1/accounts/user-1/transactions?limit=abc", nil)
	withAccount(c, "id", "user-1")
	h.ListTransactions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Audit Handler Tests ---

func TestAuditVerify_Broken(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditTrail(ctrl)
	h := NewAuditHandler(audit)

	broken := uuid.New()
	audit.EXPECT().VerifyChain(gomock.Any(), "user-1").Return(&domain.ChainReport{
		EntityID:      "user-1",
		EntriesTotal:  3,
		BrokenEntryID: &broken,
		Reason:        "stored hash does not match entry content",
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/admin/audit/user-1/verify", nil)
	withAccount(c, "accountId", "user-1")
	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, broken.String(), data["broken_entry_id"])
}

func TestAuditReverse_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditTrail(ctrl)
	h := NewAuditHandler(audit)

	entryID := uuid.New()
	audit.EXPECT().Reverse(gomock.Any(), "admin-1", entryID).Return(&domain.ReversalResult{
		Account:       testAccount("user-1", 0),
		ReversalEntry: &domain.AuditEntry{ID: uuid.New(), EntityID: "user-1"},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/admin/audit/entries/"+entryID.String()+"/reverse", nil)
	c.Params = gin.Params{{Key: "entryId", Value: entryID.String()}}
	asUser(c, "admin-1", ports.RoleAdmin)
	h.Reverse(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuditReverse_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewAuditHandler(mocks.NewMockAuditTrail(ctrl))

	c, w := newContext(http.MethodPost, "/api/v1/admin/audit/entries/nope/reverse", nil)
	c.Params = gin.Params{{Key: "entryId", Value: "nope"}}
	h.Reverse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditReverse_NotReversible(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditTrail(ctrl)
	h := NewAuditHandler(audit)

	audit.EXPECT().Reverse(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrNotReversible("Audit entry already reversed"))

	id := uuid.New()
	c, w := newContext(http.MethodPost, "/api/v1/admin/audit/entries/"+id.String()+"/reverse", nil)
	c.Params = gin.Params{{Key: "entryId", Value: id.String()}}
	h.Reverse(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeNotReversible, decode(t, w).ErrorCode)
}

func TestAuditList(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditTrail(ctrl)
	h := NewAuditHandler(audit)

	audit.EXPECT().List(gomock.Any(), "user-1", 0).Return([]domain.AuditEntry{{ID: uuid.New(), EntityID: "user-1"}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/admin/audit/user-1", nil)
	withAccount(c, "accountId", "user-1")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	rd := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Name().Return("postgres").AnyTimes()
	rd.EXPECT().Name().Return("redis").AnyTimes()
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	c, w := newContext(http.MethodGet, "/health", nil)
	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status       string                       `json:"status"`
		Dependencies map[string]map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "healthy", body.Dependencies["postgres"]["status"])
	assert.Equal(t, "connection refused", body.Dependencies["redis"]["error"])
}

// --- Router ---

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockLedgerService, *mocks.MockTokenService) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	r := SetupRouter(RouterDeps{
		LedgerSvc: ledger,
		FraudSvc:  mocks.NewMockFraudService(ctrl),
		AuditSvc:  mocks.NewMockAuditTrail(ctrl),
		TokenSvc:  tokens,
		Logger:    zerolog.Nop(),
	})
	return r, ledger, tokens
}

func TestRouter_RequiresToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/user-1/balance", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_OwnAccountOnly(t *testing.T) {
	r, ledger, tokens := newTestRouter(t)
	tokens.EXPECT().Validate("user-token").Return(&ports.TokenClaims{Subject: "user-1", Role: ports.RoleUser}, nil).Times(2)
	ledger.EXPECT().GetBalance(gomock.Any(), "user-1").Return(testAccount("user-1", 10), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/user-1/balance", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/user-2/balance", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdminRoutesRejectUsers(t *testing.T) {
	r, _, tokens := newTestRouter(t)
	tokens.EXPECT().Validate("user-token").Return(&ports.TokenClaims{Subject: "user-1", Role: ports.RoleUser}, nil).Times(2)

	for _, target := range []string{"/api/v1/admin/audit/user-1", "/api/v1/accounts/user-1/refunds"} {
		method := http.MethodGet
		if target == "/api/v1/accounts/user-1/refunds" {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Authorization", "Bearer user-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}
}

func TestRouter_EarnRequiresCreditingRole(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{ports.RoleUser, http.StatusForbidden},
		{ports.RoleService, http.StatusCreated},
		{ports.RoleAdmin, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r, ledger, tokens := newTestRouter(t)
			tokens.EXPECT().Validate("tok").Return(&ports.TokenClaims{Subject: "caller-1", Role: tt.role}, nil)
			if tt.want == http.StatusCreated {
				ledger.EXPECT().Earn(gomock.Any(), gomock.Any()).Return(&ports.LedgerResult{
					Account:     testAccount("user-1", 10),
					Transaction: &domain.Transaction{ID: uuid.New(), AccountID: "user-1", Type: domain.TransactionTypeEarn, Amount: 10},
				}, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/user-1/earn",
				bytes.NewBufferString(`{"amount":10,"source":"steps"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer tok")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
