package handler

import (
	"healcoin-ledger/internal/adapter/http/middleware"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	FraudSvc       ports.FraudService
	AuditSvc       ports.AuditTrail
	TokenSvc       ports.TokenService
	RateLimiter    middleware.Limiter // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		return middleware.RateLimiter(deps.RateLimiter, group, rules[group], deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	ledger := NewLedgerHandler(deps.LedgerSvc, deps.FraudSvc)
	audit := NewAuditHandler(deps.AuditSvc)

	v1 := r.Group("/api/v1", jwtAuth)

	accounts := v1.Group("/accounts/:id")
	{
		own := middleware.RequireAccountAccess("id")
		crediting := middleware.RequireRole(ports.RoleService, ports.RoleAdmin)
		accounts.GET("/balance", own, rl("ledger_read"), ledger.GetBalance)
		accounts.GET("/transactions", own, rl("ledger_read"), ledger.ListTransactions)
		accounts.POST("/earn", crediting, rl("ledger_write"), ledger.Earn)
		accounts.POST("/redeem", own, rl("ledger_write"), ledger.Redeem)
		accounts.POST("/logins", own, rl("logins"), ledger.RecordLogin)
		accounts.POST("/refunds", middleware.RequireAdmin(), rl("admin"), ledger.Refund)
	}

	admin := v1.Group("/admin", middleware.RequireAdmin(), rl("admin"))
	{
		admin.GET("/audit/:accountId", audit.List)
		admin.GET("/audit/:accountId/verify", audit.Verify)
		admin.POST("/audit/entries/:entryId/reverse", audit.Reverse)
	}

	return r
}
