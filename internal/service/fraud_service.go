package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"healcoin-ledger/config"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/internal/metrics"
	"healcoin-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// FraudService implements ports.FraudService. Every check is computed from
// stored history; the service keeps no state of its own.
type FraudService struct {
	txRepo       ports.TransactionRepository
	loginRepo    ports.LoginRepository
	activityRepo ports.ActivityRepository
	cfg          config.FraudConfig
	now          func() time.Time
	log          zerolog.Logger
}

// NewFraudService creates a new FraudService.
func NewFraudService(
	txRepo ports.TransactionRepository,
	loginRepo ports.LoginRepository,
	activityRepo ports.ActivityRepository,
	cfg config.FraudConfig,
	log zerolog.Logger,
) *FraudService {
	return &FraudService{
		txRepo:       txRepo,
		loginRepo:    loginRepo,
		activityRepo: activityRepo,
		cfg:          cfg,
		now:          time.Now,
		log:          log,
	}
}

// IsSuspiciousActivity runs velocity, amount-outlier, device and geo checks
// in that order and returns the first one that trips.
func (s *FraudService) IsSuspiciousActivity(ctx context.Context, tx pgx.Tx, accountID string, activity domain.ActivityContext) (domain.FraudSignal, error) {
	now := activity.OccurredAt()
	if now.IsZero() {
		now = s.now()
	}

	signal, err := s.checkVelocity(ctx, tx, accountID, now)
	if err != nil || signal.IsSuspicious {
		return s.flag(accountID, activity, signal), err
	}

	switch a := activity.(type) {
	case domain.EarnContext:
		signal, err = s.checkAmount(ctx, tx, accountID, a.Amount)
	case domain.LoginContext:
		signal, err = s.checkLogin(ctx, accountID, a, now)
	}
	return s.flag(accountID, activity, signal), err
}

func (s *FraudService) flag(accountID string, activity domain.ActivityContext, signal domain.FraudSignal) domain.FraudSignal {
	if signal.IsSuspicious {
		metrics.FraudFlags.WithLabelValues(signal.Reason).Inc()
		s.log.Warn().
			Str("account_id", accountID).
			Str("activity", string(activity.Kind())).
			Str("reason", signal.Reason).
			Msg("suspicious activity")
	}
	return signal
}

func (s *FraudService) checkVelocity(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (domain.FraudSignal, error) {
	count, err := s.txRepo.CountUserActivitySince(ctx, tx, accountID, now.Add(-s.cfg.VelocityWindow))
	if err != nil {
		return domain.FraudSignal{}, fmt.Errorf("velocity check: %w", err)
	}
	if count >= s.cfg.VelocityThreshold {
		return domain.Suspicious(domain.ReasonRapidTransactions), nil
	}
	return domain.FraudSignal{}, nil
}

func (s *FraudService) checkAmount(ctx context.Context, tx pgx.Tx, accountID string, amount int64) (domain.FraudSignal, error) {
	amounts, err := s.txRepo.RecentCreditAmounts(ctx, tx, accountID, s.cfg.AmountSampleSize)
	if err != nil {
		return domain.FraudSignal{}, fmt.Errorf("amount check: %w", err)
	}
	if len(amounts) == 0 {
		return domain.FraudSignal{}, nil
	}

	mean, stddev := meanStdDev(amounts)
	if float64(amount) > mean+s.cfg.AmountStdDevFactor*stddev && amount > s.cfg.AmountFloor {
		return domain.Suspicious(domain.ReasonUnusualAmount), nil
	}
	return domain.FraudSignal{}, nil
}

func (s *FraudService) checkLogin(ctx context.Context, accountID string, login domain.LoginContext, now time.Time) (domain.FraudSignal, error) {
	recent, err := s.loginRepo.ListRecent(ctx, accountID, s.cfg.DeviceSampleSize)
	if err != nil {
		return domain.FraudSignal{}, fmt.Errorf("login history: %w", err)
	}
	if len(recent) == 0 {
		return domain.FraudSignal{}, nil
	}

	devices := make(map[string]struct{}, len(recent))
	for _, r := range recent {
		devices[r.DeviceID] = struct{}{}
	}
	if _, known := devices[login.DeviceID]; !known && len(devices) >= s.cfg.DeviceDistinctLimit {
		return domain.Suspicious(domain.ReasonMultipleDevices), nil
	}

	// IP difference within the window stands in for geographic distance.
	last := recent[0]
	if login.IPAddress != "" && last.IPAddress != "" && last.IPAddress != login.IPAddress &&
		now.Sub(last.CreatedAt) < s.cfg.GeoWindow {
		return domain.Suspicious(domain.ReasonGeoAnomaly), nil
	}
	return domain.FraudSignal{}, nil
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []int64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// IsDuplicateRedemption reports whether the reward was redeemed within the
// duplicate window ending at now.
func (s *FraudService) IsDuplicateRedemption(ctx context.Context, tx pgx.Tx, accountID, rewardID string, now time.Time) (bool, error) {
	times, err := s.txRepo.RecentRedemptionTimes(ctx, tx, accountID, rewardID, s.cfg.DuplicateSampleSize)
	if err != nil {
		return false, fmt.Errorf("duplicate redemption check: %w", err)
	}
	return s.anyWithinWindow(times, now), nil
}

// IsDuplicateEarning reports whether the same source paid the same amount
// within the duplicate window ending at now.
func (s *FraudService) IsDuplicateEarning(ctx context.Context, tx pgx.Tx, accountID, source string, amount int64, now time.Time) (bool, error) {
	times, err := s.txRepo.RecentEarningTimes(ctx, tx, accountID, source, amount, s.cfg.DuplicateSampleSize)
	if err != nil {
		return false, fmt.Errorf("duplicate earning check: %w", err)
	}
	return s.anyWithinWindow(times, now), nil
}

// IsDuplicateCarbonAction reports whether the action type was logged within the duplicate window.
func (s *FraudService) IsDuplicateCarbonAction(ctx context.Context, accountID, actionType string) (bool, error) {
	times, err := s.activityRepo.RecentCarbonActionTimes(ctx, accountID, actionType, s.cfg.DuplicateSampleSize)
	if err != nil {
		return false, apperror.ErrStorageUnavailable(fmt.Errorf("duplicate carbon action check: %w", err))
	}
	return s.anyWithinWindow(times, s.now()), nil
}

// IsDuplicateGameSubmission reports whether the game was submitted within the duplicate window.
func (s *FraudService) IsDuplicateGameSubmission(ctx context.Context, accountID, gameID string) (bool, error) {
	times, err := s.activityRepo.RecentGameSubmissionTimes(ctx, accountID, gameID, s.cfg.DuplicateSampleSize)
	if err != nil {
		return false, apperror.ErrStorageUnavailable(fmt.Errorf("duplicate game submission check: %w", err))
	}
	return s.anyWithinWindow(times, s.now()), nil
}

func (s *FraudService) anyWithinWindow(times []time.Time, now time.Time) bool {
	cutoff := now.Add(-s.cfg.DuplicateWindow)
	for _, t := range times {
		if t.After(cutoff) {
			return true
		}
	}
	return false
}

// RecordLogin evaluates the login against prior history, then stores it.
// The signal is advisory; the login is recorded either way.
func (s *FraudService) RecordLogin(ctx context.Context, accountID string, login domain.LoginContext) (domain.FraudSignal, error) {
	if accountID == "" || login.DeviceID == "" {
		return domain.FraudSignal{}, apperror.Validation("account_id and device_id are required")
	}
	if login.At.IsZero() {
		login.At = s.now().UTC()
	}

	signal, err := s.IsSuspiciousActivity(ctx, nil, accountID, login)
	if err != nil {
		return domain.FraudSignal{}, apperror.ErrStorageUnavailable(err)
	}

	rec := &domain.LoginRecord{
		AccountID: accountID,
		DeviceID:  login.DeviceID,
		IPAddress: login.IPAddress,
		CreatedAt: login.At,
	}
	if err := s.loginRepo.Create(ctx, rec); err != nil {
		return domain.FraudSignal{}, apperror.ErrStorageUnavailable(fmt.Errorf("record login: %w", err))
	}
	return signal, nil
}
