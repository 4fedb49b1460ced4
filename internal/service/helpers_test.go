package service

import (
	"context"
	"testing"
	"time"

	"healcoin-ledger/config"
	"healcoin-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

// mockTx records Commit/Rollback; any other pgx.Tx method panics.
type mockTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		MaxAttempts:    3,
		BaseBackoff:    time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		IdempotencyTTL: 24 * time.Hour,
		SystemActorID:  "system",
	}
}

func testCapsConfig() config.CapsConfig {
	return config.CapsConfig{
		DailyEarnCap:     1000,
		DailyRedeemCap:   5000,
		MonthlyRedeemCap: 20000,
		Timezone:         "UTC",
	}
}

func testFraudConfig() config.FraudConfig {
	return config.FraudConfig{
		VelocityWindow:      time.Minute,
		VelocityThreshold:   1000,
		AmountSampleSize:    20,
		AmountStdDevFactor:  3,
		AmountFloor:         50,
		DeviceSampleSize:    5,
		DeviceDistinctLimit: 3,
		GeoWindow:           time.Hour,
		DuplicateWindow:     time.Hour,
		DuplicateSampleSize: 5,
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}
