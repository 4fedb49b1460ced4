package memory

import (
	"context"
	"time"

	"healcoin-ledger/internal/core/domain"
	"healcoin-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct{ s *Store }

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct{ s *Store }

// UsageRepo implements ports.UsageRepository.
type UsageRepo struct{ s *Store }

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct{ s *Store }

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct{ s *Store }

// RewardRepo implements ports.RewardRepository.
type RewardRepo struct{ s *Store }

// LoginRepo implements ports.LoginRepository.
type LoginRepo struct{ s *Store }

// ActivityRepo implements ports.ActivityRepository.
type ActivityRepo struct{ s *Store }

func (s *Store) Accounts() *AccountRepo         { return &AccountRepo{s} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s} }
func (s *Store) Usage() *UsageRepo              { return &UsageRepo{s} }
func (s *Store) Audit() *AuditRepo              { return &AuditRepo{s} }
func (s *Store) Idempotency() *IdempotencyRepo  { return &IdempotencyRepo{s} }
func (s *Store) Rewards() *RewardRepo           { return &RewardRepo{s} }
func (s *Store) Logins() *LoginRepo             { return &LoginRepo{s} }
func (s *Store) Activity() *ActivityRepo        { return &ActivityRepo{s} }

// ---- accounts ----

// GetOrCreate returns the account, inserting a zero-balance one if missing.
func (r *AccountRepo) GetOrCreate(_ context.Context, accountID string, now time.Time) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[accountID]
	if !ok {
		a = *domain.NewAccount(accountID, now)
		r.s.accounts[accountID] = a
	}
	return &a, nil
}

// GetByID returns nil, nil when the account does not exist.
func (r *AccountRepo) GetByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// GetOrCreateForUpdate locks the account for the life of tx.
func (r *AccountRepo) GetOrCreateForUpdate(ctx context.Context, tx pgx.Tx, accountID string, now time.Time) (*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, wrap("lock account", err)
	}
	if err := t.acquire(ctx, accountKey(accountID)); err != nil {
		return nil, wrap("lock account", err)
	}
	return r.GetOrCreate(ctx, accountID, now)
}

// Update stages a version-checked write of the account and bumps its version.
func (r *AccountRepo) Update(_ context.Context, tx pgx.Tx, account *domain.Account) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("update account", err)
	}
	expected := account.Version
	account.Version++
	next := *account

	t.stage(func() error {
		cur, ok := r.s.accounts[next.AccountID]
		if !ok || cur.Version != expected {
			return ports.ErrWriteConflict
		}
		return nil
	}, func() {
		r.s.accounts[next.AccountID] = next
	})
	return nil
}

// ---- transactions ----

// Create stages an insert.
func (r *TransactionRepo) Create(_ context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("insert transaction", err)
	}
	rec := *txn
	t.stage(nil, func() {
		r.s.txns[rec.AccountID] = append(r.s.txns[rec.AccountID], rec)
	})
	return nil
}

// ListByAccount returns the newest transactions first.
func (r *TransactionRepo) ListByAccount(_ context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.newestTxns(accountID, func(*domain.Transaction) bool { return true }, limit), nil
}

// CountUserActivitySince counts earn and redeem transactions created at or after since.
func (r *TransactionRepo) CountUserActivitySince(_ context.Context, _ pgx.Tx, accountID string, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for i := range r.s.txns[accountID] {
		t := &r.s.txns[accountID][i]
		if t.CountsTowardVelocity() && !t.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// RecentCreditAmounts returns the newest earn/bonus amounts.
func (r *TransactionRepo) RecentCreditAmounts(_ context.Context, _ pgx.Tx, accountID string, limit int) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.newestTxns(accountID, func(t *domain.Transaction) bool {
		return t.Type == domain.TransactionTypeEarn || t.Type == domain.TransactionTypeBonus
	}, limit)
	out := make([]int64, 0, len(list))
	for _, t := range list {
		out = append(out, t.Amount)
	}
	return out, nil
}

// RecentEarningTimes returns times of the newest earns with the same source and amount.
func (r *TransactionRepo) RecentEarningTimes(_ context.Context, _ pgx.Tx, accountID, source string, amount int64, limit int) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.newestTxns(accountID, func(t *domain.Transaction) bool {
		return t.Type == domain.TransactionTypeEarn && t.Source == source && t.Amount == amount
	}, limit)
	return createdTimes(list), nil
}

// RecentRedemptionTimes returns times of the newest redemptions of the reward.
func (r *TransactionRepo) RecentRedemptionTimes(_ context.Context, _ pgx.Tx, accountID, rewardID string, limit int) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.newestTxns(accountID, func(t *domain.Transaction) bool {
		return t.Type == domain.TransactionTypeRedeem && t.RewardID != nil && *t.RewardID == rewardID
	}, limit)
	return createdTimes(list), nil
}

func createdTimes(list []domain.Transaction) []time.Time {
	out := make([]time.Time, 0, len(list))
	for _, t := range list {
		out = append(out, t.CreatedAt)
	}
	return out
}

// ---- usage ----

// Get returns nil, nil when no usage was recorded.
func (r *UsageRepo) Get(_ context.Context, accountID string) (*domain.UsageCounter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.usage[accountID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetForUpdate reads the counter under the account lock.
func (r *UsageRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.UsageCounter, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, wrap("lock usage", err)
	}
	if err := t.acquire(ctx, accountKey(accountID)); err != nil {
		return nil, wrap("lock usage", err)
	}
	return r.Get(ctx, accountID)
}

// Upsert stages the counter write.
func (r *UsageRepo) Upsert(_ context.Context, tx pgx.Tx, usage *domain.UsageCounter) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("upsert usage", err)
	}
	u := *usage
	t.stage(nil, func() { r.s.usage[u.AccountID] = u })
	return nil
}

// ---- audit ----

// Create stages an append to the entity's chain.
func (r *AuditRepo) Create(_ context.Context, tx pgx.Tx, entry *domain.AuditEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("insert audit entry", err)
	}
	e := *entry
	t.mu.Lock()
	if t.audit == nil {
		t.audit = make(map[string]domain.AuditEntry)
	}
	t.audit[e.EntityID] = e
	t.mu.Unlock()

	t.stage(func() error {
		if e.ReversesEntryID != nil {
			if _, done := r.s.reversals[*e.ReversesEntryID]; done {
				return ports.ErrWriteConflict
			}
		}
		return nil
	}, func() {
		r.s.audit[e.EntityID] = append(r.s.audit[e.EntityID], e)
		r.s.auditByID[e.ID] = e
		if e.ReversesEntryID != nil {
			r.s.reversals[*e.ReversesEntryID] = e.ID
		}
	})
	return nil
}

// GetByID returns nil, nil when the entry does not exist.
func (r *AuditRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.auditByID[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetLast sees entries staged by tx before committed ones.
func (r *AuditRepo) GetLast(_ context.Context, tx pgx.Tx, entityID string) (*domain.AuditEntry, error) {
	if tx != nil {
		t, err := asTx(tx)
		if err != nil {
			return nil, wrap("last audit entry", err)
		}
		t.mu.Lock()
		e, ok := t.audit[entityID]
		t.mu.Unlock()
		if ok {
			return &e, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	chain := r.s.audit[entityID]
	if len(chain) == 0 {
		return nil, nil
	}
	e := chain[len(chain)-1]
	return &e, nil
}

// HasReversal reports whether entryID has been reversed.
func (r *AuditRepo) HasReversal(_ context.Context, _ pgx.Tx, entryID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.reversals[entryID]
	return ok, nil
}

// ListByEntity returns the newest entries first.
func (r *AuditRepo) ListByEntity(_ context.Context, entityID string, limit int) ([]domain.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	chain := r.s.audit[entityID]
	out := make([]domain.AuditEntry, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListChain returns the entries in append order.
func (r *AuditRepo) ListChain(_ context.Context, entityID string) ([]domain.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.AuditEntry(nil), r.s.audit[entityID]...), nil
}

// Tamper overwrites a committed entry in place. Exists to exercise chain verification.
func (r *AuditRepo) Tamper(id uuid.UUID, mutate func(e *domain.AuditEntry)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.auditByID[id]
	if !ok {
		return false
	}
	chain := r.s.audit[e.EntityID]
	for i := range chain {
		if chain[i].ID == id {
			mutate(&chain[i])
			r.s.auditByID[id] = chain[i]
			return true
		}
	}
	return false
}

// ---- idempotency ----

// Create stages the log. Commit fails with ErrWriteConflict if an unexpired
// log with the same key exists.
func (r *IdempotencyRepo) Create(_ context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("insert idempotency log", err)
	}
	l := *log
	t.stage(func() error {
		if prior, ok := r.s.idemp[l.Key]; ok && prior.CreatedAt.After(l.CreatedAt.Add(-r.s.idempTTL)) {
			return ports.ErrWriteConflict
		}
		return nil
	}, func() {
		r.s.idemp[l.Key] = l
	})
	return nil
}

// Get returns nil, nil when the key is unknown.
func (r *IdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.idemp[key]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// ---- rewards ----

// GetForUpdate locks the reward for the life of tx.
func (r *RewardRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, rewardID string) (*domain.Reward, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, wrap("lock reward", err)
	}
	if err := t.acquire(ctx, rewardKey(rewardID)); err != nil {
		return nil, wrap("lock reward", err)
	}
	rw, ok := r.s.Reward(rewardID)
	if !ok {
		return nil, nil
	}
	return &rw, nil
}

// DecrementStock stages a stock decrement.
func (r *RewardRepo) DecrementStock(_ context.Context, tx pgx.Tx, rewardID string) error {
	t, err := asTx(tx)
	if err != nil {
		return wrap("decrement stock", err)
	}
	t.stage(func() error {
		rw, ok := r.s.rewards[rewardID]
		if !ok || rw.Stock == nil || *rw.Stock <= 0 {
			return ports.ErrWriteConflict
		}
		return nil
	}, func() {
		rw := r.s.rewards[rewardID]
		stock := *rw.Stock - 1
		rw.Stock = &stock
		r.s.rewards[rewardID] = rw
	})
	return nil
}

// ---- logins ----

// Create stores a login immediately.
func (r *LoginRepo) Create(_ context.Context, login *domain.LoginRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.logins[login.AccountID] = append(r.s.logins[login.AccountID], *login)
	return nil
}

// ListRecent returns the newest logins first.
func (r *LoginRepo) ListRecent(_ context.Context, accountID string, limit int) ([]domain.LoginRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.logins[accountID]
	out := make([]domain.LoginRecord, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ---- activity ----

// RecentCarbonActionTimes returns times of the newest matching actions.
func (r *ActivityRepo) RecentCarbonActionTimes(_ context.Context, accountID, actionType string, limit int) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return newestTimes(r.s.carbon[accountID], func(k timedKey) bool { return k.key == actionType }, limit), nil
}

// RecentGameSubmissionTimes returns times of the newest submissions for the game.
func (r *ActivityRepo) RecentGameSubmissionTimes(_ context.Context, accountID, gameID string, limit int) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return newestTimes(r.s.games[accountID], func(k timedKey) bool { return k.key == gameID }, limit), nil
}

// SumSignedAmounts returns the net balance effect of every committed
// transaction of the account.
func (s *Store) SumSignedAmounts(accountID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for i := range s.txns[accountID] {
		sum += s.txns[accountID][i].SignedAmount()
	}
	return sum
}

// AccountCount returns how many accounts exist.
func (s *Store) AccountCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
