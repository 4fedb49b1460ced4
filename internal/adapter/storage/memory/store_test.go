package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.AccountRepository     = (*AccountRepo)(nil)
	_ ports.TransactionRepository = (*TransactionRepo)(nil)
	_ ports.UsageRepository       = (*UsageRepo)(nil)
	_ ports.AuditRepository       = (*AuditRepo)(nil)
	_ ports.IdempotencyRepository = (*IdempotencyRepo)(nil)
	_ ports.RewardRepository      = (*RewardRepo)(nil)
	_ ports.LoginRepository       = (*LoginRepo)(nil)
	_ ports.ActivityRepository    = (*ActivityRepo)(nil)
	_ ports.DBTransactor          = (*Store)(nil)
	_ ports.HealthChecker         = (*Store)(nil)
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestStore_WritesVisibleOnlyAfterCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	accounts := s.Accounts()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	acct, err := accounts.GetOrCreateForUpdate(ctx, tx, "u1", testNow)
	require.NoError(t, err)

	acct.HealCoinBalance = 50
	require.NoError(t, accounts.Update(ctx, tx, acct))
	assert.Equal(t, int64(1), acct.Version)

	got, err := accounts.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.HealCoinBalance)

	require.NoError(t, tx.Commit(ctx))

	got, err = accounts.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.HealCoinBalance)
	assert.Equal(t, int64(1), got.Version)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	tx, _ := s.Begin(ctx)
	require.NoError(t, s.Transactions().Create(ctx, tx, &domain.Transaction{
		ID: uuid.New(), AccountID: "u1", Type: domain.TransactionTypeEarn, Amount: 10, CreatedAt: testNow,
	}))
	require.NoError(t, tx.Rollback(ctx))

	list, err := s.Transactions().ListByAccount(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, tx.Commit(ctx), pgx.ErrTxClosed)
}

func TestStore_UpdateVersionConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	accounts := s.Accounts()
	_, err := accounts.GetOrCreate(ctx, "u1", testNow)
	require.NoError(t, err)

	tx, _ := s.Begin(ctx)
	stale := domain.NewAccount("u1", testNow)
	stale.Version = 7
	require.NoError(t, accounts.Update(ctx, tx, stale))

	assert.ErrorIs(t, tx.Commit(ctx), ports.ErrWriteConflict)
}

func TestStore_AccountLockSerializes(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	accounts := s.Accounts()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer tx.Rollback(ctx) //nolint:errcheck
			acct, err := accounts.GetOrCreateForUpdate(ctx, tx, "u1", testNow)
			if !assert.NoError(t, err) {
				return
			}
			acct.HealCoinBalance++
			assert.NoError(t, accounts.Update(ctx, tx, acct))
			assert.NoError(t, tx.Commit(ctx))
		}()
	}
	wg.Wait()

	got, _ := accounts.GetByID(ctx, "u1")
	assert.Equal(t, int64(workers), got.HealCoinBalance)
	assert.Equal(t, int64(workers), got.Version)
}

func TestStore_LockHonorsContext(t *testing.T) {
	s := NewStore(time.Hour)
	accounts := s.Accounts()

	holder, _ := s.Begin(context.Background())
	_, err := accounts.GetOrCreateForUpdate(context.Background(), holder, "u1", testNow)
	require.NoError(t, err)
	defer holder.Rollback(context.Background()) //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waiter, _ := s.Begin(ctx)
	_, err = accounts.GetOrCreateForUpdate(ctx, waiter, "u1", testNow)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_IdempotencyKeyUniqueWithinTTL(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	repo := s.Idempotency()

	first, _ := s.Begin(ctx)
	require.NoError(t, repo.Create(ctx, first, &domain.IdempotencyLog{Key: "k", CreatedAt: testNow}))
	require.NoError(t, first.Commit(ctx))

	dup, _ := s.Begin(ctx)
	require.NoError(t, repo.Create(ctx, dup, &domain.IdempotencyLog{Key: "k", CreatedAt: testNow.Add(time.Minute)}))
	assert.ErrorIs(t, dup.Commit(ctx), ports.ErrWriteConflict)

	later, _ := s.Begin(ctx)
	require.NoError(t, repo.Create(ctx, later, &domain.IdempotencyLog{Key: "k", CreatedAt: testNow.Add(2 * time.Hour)}))
	require.NoError(t, later.Commit(ctx))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(2*time.Hour), got.CreatedAt)
}

func TestStore_AuditGetLastSeesPendingEntry(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	audit := s.Audit()

	tx, _ := s.Begin(ctx)
	entry := &domain.AuditEntry{ID: uuid.New(), EntityID: "u1", Hash: "h1", CreatedAt: testNow}
	require.NoError(t, audit.Create(ctx, tx, entry))

	last, err := audit.GetLast(ctx, tx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h1", last.Hash)

	committed, err := audit.GetLast(ctx, nil, "u1")
	require.NoError(t, err)
	assert.Nil(t, committed)

	require.NoError(t, tx.Commit(ctx))
	chain, err := audit.ListChain(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, entry.ID, chain[0].ID)
}

func TestStore_ReversalRecordedOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	audit := s.Audit()
	target := uuid.New()

	for i, want := range []error{nil, ports.ErrWriteConflict} {
		tx, _ := s.Begin(ctx)
		require.NoError(t, audit.Create(ctx, tx, &domain.AuditEntry{
			ID: uuid.New(), EntityID: "u1", ReversesEntryID: &target, CreatedAt: testNow.Add(time.Duration(i) * time.Second),
		}))
		assert.ErrorIs(t, tx.Commit(ctx), want)
	}

	done, err := audit.HasReversal(ctx, nil, target)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStore_RewardStockDecrement(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	stock := int64(1)
	s.PutReward(domain.Reward{ID: "r1", Cost: 20, Stock: &stock, IsActive: true})
	rewards := s.Rewards()

	tx, _ := s.Begin(ctx)
	rw, err := rewards.GetForUpdate(ctx, tx, "r1")
	require.NoError(t, err)
	assert.True(t, rw.InStock())
	require.NoError(t, rewards.DecrementStock(ctx, tx, "r1"))
	require.NoError(t, tx.Commit(ctx))

	after, ok := s.Reward("r1")
	require.True(t, ok)
	assert.Equal(t, int64(0), *after.Stock)

	missing, _ := s.Begin(ctx)
	rw, err = rewards.GetForUpdate(ctx, missing, "nope")
	require.NoError(t, err)
	assert.Nil(t, rw)
	_ = missing.Rollback(ctx)
}

func TestStore_TransactionQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	txns := s.Transactions()
	reward := "r1"

	tx, _ := s.Begin(ctx)
	rows := []domain.Transaction{
		{Type: domain.TransactionTypeEarn, Amount: 10, Source: "steps", CreatedAt: testNow.Add(-10 * time.Minute)},
		{Type: domain.TransactionTypeBonus, Amount: 5, Source: "bonus", CreatedAt: testNow.Add(-5 * time.Minute)},
		{Type: domain.TransactionTypeRedeem, Amount: 8, RewardID: &reward, CreatedAt: testNow.Add(-30 * time.Second)},
		{Type: domain.TransactionTypeRefund, Amount: 3, Source: "refund", CreatedAt: testNow},
	}
	for i := range rows {
		rows[i].ID = uuid.New()
		rows[i].AccountID = "u1"
		require.NoError(t, txns.Create(ctx, tx, &rows[i]))
	}
	require.NoError(t, tx.Commit(ctx))

	n, err := txns.CountUserActivitySince(ctx, nil, "u1", testNow.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	amounts, err := txns.RecentCreditAmounts(ctx, nil, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 10}, amounts)

	earnTimes, err := txns.RecentEarningTimes(ctx, nil, "u1", "steps", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{rows[0].CreatedAt}, earnTimes)

	redeemTimes, err := txns.RecentRedemptionTimes(ctx, nil, "u1", reward, 5)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{rows[2].CreatedAt}, redeemTimes)

	list, err := txns.ListByAccount(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.TransactionTypeRefund, list[0].Type)

	assert.Equal(t, int64(10+5-8+3), s.SumSignedAmounts("u1"))
}

func TestStore_FailCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	boom := errors.New("disk on fire")
	s.FailCommits(1, boom)

	tx, _ := s.Begin(ctx)
	require.NoError(t, s.Usage().Upsert(ctx, tx, &domain.UsageCounter{AccountID: "u1", DailyEarned: 5}))
	assert.ErrorIs(t, tx.Commit(ctx), boom)

	u, err := s.Usage().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, u)

	tx, _ = s.Begin(ctx)
	require.NoError(t, s.Usage().Upsert(ctx, tx, &domain.UsageCounter{AccountID: "u1", DailyEarned: 5}))
	require.NoError(t, tx.Commit(ctx))
	u, _ = s.Usage().Get(ctx, "u1")
	assert.Equal(t, int64(5), u.DailyEarned)
}

func TestStore_ForeignTxRejected(t *testing.T) {
	err := NewStore(time.Hour).Usage().Upsert(context.Background(), nil, &domain.UsageCounter{AccountID: "u1"})
	assert.ErrorIs(t, err, errForeignTx)
}

func TestStore_LoginsAndActivity(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	require.NoError(t, s.Logins().Create(ctx, &domain.LoginRecord{AccountID: "u1", DeviceID: "a", CreatedAt: testNow.Add(-time.Hour)}))
	require.NoError(t, s.Logins().Create(ctx, &domain.LoginRecord{AccountID: "u1", DeviceID: "b", CreatedAt: testNow}))
	logins, err := s.Logins().ListRecent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	assert.Equal(t, "b", logins[0].DeviceID)

	s.RecordCarbonAction("u1", "cycling", testNow.Add(-time.Minute))
	s.RecordCarbonAction("u1", "walking", testNow)
	times, err := s.Activity().RecentCarbonActionTimes(ctx, "u1", "cycling", 5)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{testNow.Add(-time.Minute)}, times)

	s.RecordGameSubmission("u1", "quiz", testNow)
	times, err = s.Activity().RecentGameSubmissionTimes(ctx, "u1", "quiz", 5)
	require.NoError(t, err)
	assert.Len(t, times, 1)
}
