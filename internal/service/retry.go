package service

import (
	"context"

	"healcoin-ledger/config"
	"healcoin-ledger/internal/metrics"
	"healcoin-ledger/pkg/apperror"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog"
)

// runCommit executes attempt under a bounded exponential-backoff retry
// policy. Business rejections are returned as-is on first occurrence;
// any other failure is retried and, once attempts are exhausted, surfaced as
// StorageUnavailable carrying the last storage error.
func runCommit[T any](ctx context.Context, cfg config.LedgerConfig, log zerolog.Logger, op string, attempt func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero     T
		lastErr  error
		attempts int
	)

	maxRetries := cfg.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}

	policy := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool {
			return err != nil && !apperror.IsRejection(err) && ctx.Err() == nil
		}).
		WithBackoff(cfg.BaseBackoff, cfg.MaxBackoff).
		WithMaxRetries(maxRetries).
		WithJitterFactor(0.1).
		Build()

	result, err := failsafe.With(policy).WithContext(ctx).Get(func() (T, error) {
		attempts++
		if attempts > 1 {
			metrics.CommitRetries.Inc()
			log.Warn().Err(lastErr).Str("op", op).Int("attempt", attempts).Msg("retrying ledger commit")
		}
		v, err := attempt(ctx)
		if err != nil && !apperror.IsRejection(err) {
			lastErr = err
		}
		return v, err
	})
	if err == nil {
		return result, nil
	}
	if apperror.IsRejection(err) {
		return zero, err
	}
	if lastErr == nil {
		lastErr = err
	}
	log.Error().Err(lastErr).Str("op", op).Int("attempts", attempts).Msg("ledger commit failed")
	return zero, apperror.ErrStorageUnavailable(lastErr)
}
