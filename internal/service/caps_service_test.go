package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports/mocks"
	"healcoin-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCapsService_CheckEarn(t *testing.T) {
	svc := NewCapsService(nil, testCapsConfig())

	assert.NoError(t, svc.CheckEarn(domain.UsageCounter{DailyEarned: 900}, 100))

	err := svc.CheckEarn(domain.UsageCounter{DailyEarned: 900}, 101)
	assertAppError(t, err, apperror.CodeCapExceeded)
	assert.Contains(t, err.Error(), "daily earn limit of 1000")
}

func TestCapsService_CheckRedeem(t *testing.T) {
	svc := NewCapsService(nil, testCapsConfig())

	tests := []struct {
		name    string
		usage   domain.UsageCounter
		amount  int64
		wantErr string
	}{
		{"within limits", domain.UsageCounter{DailyRedeemed: 1000, MonthlyRedeemed: 1000}, 4000, ""},
		{"daily exceeded", domain.UsageCounter{DailyRedeemed: 4500}, 501, "daily redeem limit of 5000"},
		{"monthly exceeded", domain.UsageCounter{MonthlyRedeemed: 19000}, 1001, "monthly redeem limit of 20000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckRedeem(tt.usage, tt.amount)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assertAppError(t, err, apperror.CodeCapExceeded)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCapsService_ReadsRollOver(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsageRepository(ctrl)
	svc := NewCapsService(repo, testCapsConfig())

	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	repo.EXPECT().Get(gomock.Any(), "acct-1").Return(&domain.UsageCounter{
		AccountID:       "acct-1",
		DailyEarned:     900,
		DailyRedeemed:   300,
		MonthlyRedeemed: 700,
		PeriodAnchor:    now.Add(-24 * time.Hour),
	}, nil).Times(3)

	earned, err := svc.DailyEarned(context.Background(), "acct-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), earned)

	redeemed, err := svc.DailyRedeemed(context.Background(), "acct-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), redeemed)

	monthly, err := svc.MonthlyRedeemed(context.Background(), "acct-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(700), monthly)
}

func TestCapsService_UnknownAccountIsZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsageRepository(ctrl)
	svc := NewCapsService(repo, testCapsConfig())

	repo.EXPECT().Get(gomock.Any(), "ghost").Return(nil, nil)

	earned, err := svc.DailyEarned(context.Background(), "ghost", time.Now())
	require.NoError(t, err)
	assert.Zero(t, earned)
}

func TestCapsService_ReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsageRepository(ctrl)
	svc := NewCapsService(repo, testCapsConfig())

	repo.EXPECT().Get(gomock.Any(), "acct-1").Return(nil, errors.New("connection reset"))

	_, err := svc.DailyEarned(context.Background(), "acct-1", time.Now())
	assertAppError(t, err, apperror.CodeStorageUnavailable)
}

func TestCapsService_RecordUsage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsageRepository(ctrl)
	svc := NewCapsService(repo, testCapsConfig())
	tx := &mockTx{}

	yesterday := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	repo.EXPECT().GetForUpdate(gomock.Any(), tx, "acct-1").Return(&domain.UsageCounter{
		AccountID:    "acct-1",
		DailyEarned:  900,
		PeriodAnchor: yesterday,
	}, nil)
	repo.EXPECT().Upsert(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, u *domain.UsageCounter) error {
			assert.Equal(t, int64(950), u.DailyEarned)
			assert.Equal(t, now, u.PeriodAnchor)
			return nil
		})

	usage, err := svc.Usage(context.Background(), tx, "acct-1", now)
	require.NoError(t, err)
	require.NoError(t, svc.CheckEarn(usage, 950))
	require.NoError(t, svc.RecordUsage(context.Background(), tx, usage, 950, 0, now))
}
