package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestLedgerOperations_Counts(t *testing.T) {
	before := testutil.ToFloat64(LedgerOperations.WithLabelValues("earn", "ok"))
	LedgerOperations.WithLabelValues("earn", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LedgerOperations.WithLabelValues("earn", "ok")))
}

func TestFraudFlags_LabelledByReason(t *testing.T) {
	FraudFlags.WithLabelValues("Rapid successive transactions detected").Inc()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FraudFlags), 1)
}
