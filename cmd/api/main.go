package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healcoin-ledger/config"
	httpHandler "healcoin-ledger/internal/adapter/http/handler"
	"healcoin-ledger/internal/adapter/http/middleware"
	"healcoin-ledger/internal/adapter/messaging/kafka"
	"healcoin-ledger/internal/adapter/storage/memory"
	pgStorage "healcoin-ledger/internal/adapter/storage/postgres"
	redisStorage "healcoin-ledger/internal/adapter/storage/redis"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/internal/metrics"
	"healcoin-ledger/internal/service"
	"healcoin-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// repositories bundles the storage ports of one backend.
type repositories struct {
	accounts    ports.AccountRepository
	txns        ports.TransactionRepository
	usage       ports.UsageRepository
	audit       ports.AuditRepository
	idempotency ports.IdempotencyRepository
	rewards     ports.RewardRepository
	logins      ports.LoginRepository
	activity    ports.ActivityRepository
	transactor  ports.DBTransactor
	health      ports.HealthChecker
	close       func()
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)
	metrics.Init()

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage).
		Int("port", cfg.Server.Port).
		Msg("Starting HealCoin ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer repos.close()

	checkers := []ports.HealthChecker{repos.health}

	// Redis is optional: without it the ledger relies on the durable
	// idempotency log and rate limiting is off.
	var (
		idempCache ports.IdempotencyCache
		limiter    middleware.Limiter
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		idempCache = redisStorage.NewIdempotencyCache(rdb)
		limiter = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis connected")
	}

	var publisher ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.Kafka, logger.Component(log, "events"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer pub.Close()
		publisher = pub
		checkers = append(checkers, pub)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka publisher ready")
	}

	hasher := service.NewSHA256AuditHasher()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	capsSvc := service.NewCapsService(repos.usage, cfg.Caps)
	fraudSvc := service.NewFraudService(repos.txns, repos.logins, repos.activity, cfg.Fraud, logger.Component(log, "fraud"))
	auditSvc := service.NewAuditService(
		repos.audit,
		repos.accounts,
		repos.txns,
		repos.transactor,
		hasher,
		publisher,
		cfg.Ledger,
		logger.Component(log, "audit"),
	)
	ledgerSvc := service.NewLedgerService(
		repos.accounts,
		repos.txns,
		repos.idempotency,
		repos.rewards,
		idempCache,
		publisher,
		repos.transactor,
		capsSvc,
		fraudSvc,
		auditSvc,
		cfg.Ledger,
		cfg.Fraud.BlockSuspicious,
		logger.Component(log, "ledger"),
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		FraudSvc:       fraudSvc,
		AuditSvc:       auditSvc,
		TokenSvc:       tokenSvc,
		RateLimiter:    limiter,
		HealthCheckers: checkers,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore(cfg.Ledger.IdempotencyTTL)
		log.Warn().Msg("Using in-memory storage; state is lost on exit")
		return &repositories{
			accounts:    store.Accounts(),
			txns:        store.Transactions(),
			usage:       store.Usage(),
			audit:       store.Audit(),
			idempotency: store.Idempotency(),
			rewards:     store.Rewards(),
			logins:      store.Logins(),
			activity:    store.Activity(),
			transactor:  store,
			health:      store,
			close:       func() {},
		}, nil

	case config.StoragePostgres, "":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.Migrate {
			if err := pgStorage.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("Database schema applied")
		}
		log.Info().Msg("PostgreSQL connected")
		return &repositories{
			accounts:    pgStorage.NewAccountRepo(pool),
			txns:        pgStorage.NewTransactionRepo(pool),
			usage:       pgStorage.NewUsageRepo(pool),
			audit:       pgStorage.NewAuditRepo(pool),
			idempotency: pgStorage.NewIdempotencyRepo(pool, cfg.Ledger.IdempotencyTTL),
			rewards:     pgStorage.NewRewardRepo(pool),
			logins:      pgStorage.NewLoginRepo(pool),
			activity:    pgStorage.NewActivityRepo(pool),
			transactor:  pgStorage.NewTransactor(pool, cfg.Ledger.LockTimeout),
			health:      pgStorage.NewHealthCheck(pool),
			close:       pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
