package service

import (
	"context"
	"fmt"
	"time"

	"healcoin-ledger/config"
	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"
	"healcoin-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// CapsService implements ports.CapsTracker.
type CapsService struct {
	usageRepo ports.UsageRepository
	cfg       config.CapsConfig
	loc       *time.Location
}

// NewCapsService creates a new CapsService.
func NewCapsService(usageRepo ports.UsageRepository, cfg config.CapsConfig) *CapsService {
	return &CapsService{
		usageRepo: usageRepo,
		cfg:       cfg,
		loc:       cfg.Location(),
	}
}

// DailyEarned returns today's earned total as seen at now.
func (s *CapsService) DailyEarned(ctx context.Context, accountID string, now time.Time) (int64, error) {
	u, err := s.read(ctx, accountID, now)
	if err != nil {
		return 0, err
	}
	return u.DailyEarned, nil
}

// DailyRedeemed returns today's redeemed total as seen at now.
func (s *CapsService) DailyRedeemed(ctx context.Context, accountID string, now time.Time) (int64, error) {
	u, err := s.read(ctx, accountID, now)
	if err != nil {
		return 0, err
	}
	return u.DailyRedeemed, nil
}

// MonthlyRedeemed returns this month's redeemed total as seen at now.
func (s *CapsService) MonthlyRedeemed(ctx context.Context, accountID string, now time.Time) (int64, error) {
	u, err := s.read(ctx, accountID, now)
	if err != nil {
		return 0, err
	}
	return u.MonthlyRedeemed, nil
}

func (s *CapsService) read(ctx context.Context, accountID string, now time.Time) (domain.UsageCounter, error) {
	u, err := s.usageRepo.Get(ctx, accountID)
	if err != nil {
		return domain.UsageCounter{}, apperror.ErrStorageUnavailable(fmt.Errorf("get usage: %w", err))
	}
	if u == nil {
		return domain.UsageCounter{AccountID: accountID}, nil
	}
	return u.RolledOver(now, s.loc), nil
}

// Usage reads the counters under the caller's transaction. The returned
// value is already rolled over for now.
func (s *CapsService) Usage(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (domain.UsageCounter, error) {
	u, err := s.usageRepo.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return domain.UsageCounter{}, fmt.Errorf("lock usage: %w", err)
	}
	if u == nil {
		return domain.UsageCounter{AccountID: accountID}, nil
	}
	return u.RolledOver(now, s.loc), nil
}

// CheckEarn rejects a credit that would breach the daily earn cap.
func (s *CapsService) CheckEarn(usage domain.UsageCounter, amount int64) error {
	if usage.DailyEarned+amount > s.cfg.DailyEarnCap {
		return apperror.ErrCapExceeded(fmt.Sprintf("Transaction would exceed daily earn limit of %d", s.cfg.DailyEarnCap))
	}
	return nil
}

// CheckRedeem rejects a debit that would breach the daily or monthly redeem cap.
func (s *CapsService) CheckRedeem(usage domain.UsageCounter, amount int64) error {
	if usage.DailyRedeemed+amount > s.cfg.DailyRedeemCap {
		return apperror.ErrCapExceeded(fmt.Sprintf("Transaction would exceed daily redeem limit of %d", s.cfg.DailyRedeemCap))
	}
	if usage.MonthlyRedeemed+amount > s.cfg.MonthlyRedeemCap {
		return apperror.ErrCapExceeded(fmt.Sprintf("Transaction would exceed monthly redeem limit of %d", s.cfg.MonthlyRedeemCap))
	}
	return nil
}

// RecordUsage persists the rolled-over counters plus the deltas, anchored at now.
// usage must come from Usage with the same now.
func (s *CapsService) RecordUsage(ctx context.Context, tx pgx.Tx, usage domain.UsageCounter, earnDelta, redeemDelta int64, now time.Time) error {
	next := usage.Add(earnDelta, redeemDelta, now)
	if err := s.usageRepo.Upsert(ctx, tx, &next); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}
