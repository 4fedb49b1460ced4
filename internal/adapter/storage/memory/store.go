// Package memory is an in-process implementation of the storage ports. It
// honors the same contract as the Postgres adapter: writes made through a
// transaction become visible only on Commit, and GetOrCreateForUpdate /
// GetForUpdate hold a per-key lock until the transaction ends.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"healcoin-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction was not started by this store")

type timedKey struct {
	key string
	at  time.Time
}

// Store holds all ledger state in memory.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	usage     map[string]domain.UsageCounter
	txns      map[string][]domain.Transaction // per account, commit order
	audit     map[string][]domain.AuditEntry  // per entity, append order
	auditByID map[uuid.UUID]domain.AuditEntry
	reversals map[uuid.UUID]uuid.UUID // reversed entry -> reversal entry
	idemp     map[string]domain.IdempotencyLog
	rewards   map[string]domain.Reward
	logins    map[string][]domain.LoginRecord
	carbon    map[string][]timedKey
	games     map[string][]timedKey

	idempTTL time.Duration

	locksMu sync.Mutex
	locks   map[string]chan struct{}

	faultMu     sync.Mutex
	failCommits int
	failErr     error
}

// NewStore creates an empty store. idempTTL is the window during which an
// idempotency key cannot be reused.
func NewStore(idempTTL time.Duration) *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		usage:     make(map[string]domain.UsageCounter),
		txns:      make(map[string][]domain.Transaction),
		audit:     make(map[string][]domain.AuditEntry),
		auditByID: make(map[uuid.UUID]domain.AuditEntry),
		reversals: make(map[uuid.UUID]uuid.UUID),
		idemp:     make(map[string]domain.IdempotencyLog),
		rewards:   make(map[string]domain.Reward),
		logins:    make(map[string][]domain.LoginRecord),
		carbon:    make(map[string][]timedKey),
		games:     make(map[string][]timedKey),
		idempTTL:  idempTTL,
		locks:     make(map[string]chan struct{}),
	}
}

// FailCommits makes the next n commits fail with err and roll back.
func (s *Store) FailCommits(n int, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.failCommits = n
	s.failErr = err
}

func (s *Store) injectedFailure() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if s.failCommits <= 0 {
		return nil
	}
	s.failCommits--
	return s.failErr
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(_ context.Context) (pgx.Tx, error) {
	return &Tx{store: s, held: make(map[string]chan struct{})}, nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

func (s *Store) lockFor(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

// Tx is a buffered unit of work. Only Commit and Rollback of pgx.Tx are
// implemented; the store's repositories are the only valid users.
type Tx struct {
	pgx.Tx

	store  *Store
	mu     sync.Mutex
	held   map[string]chan struct{}
	checks []func() error
	writes []func()
	audit  map[string]domain.AuditEntry // last pending entry per entity
	done   bool
}

func asTx(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTx
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

// acquire blocks until the tx holds the lock for key or ctx ends.
func (t *Tx) acquire(ctx context.Context, key string) error {
	t.mu.Lock()
	if _, ok := t.held[key]; ok {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	ch := t.store.lockFor(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.mu.Lock()
	t.held[key] = ch
	t.mu.Unlock()
	return nil
}

func (t *Tx) stage(check func() error, write func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if check != nil {
		t.checks = append(t.checks, check)
	}
	t.writes = append(t.writes, write)
}

func (t *Tx) release() {
	for key, ch := range t.held {
		<-ch
		delete(t.held, key)
	}
}

// Commit validates and applies the staged writes atomically, then releases locks.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	defer t.release()

	if err := t.store.injectedFailure(); err != nil {
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, check := range t.checks {
		if err := check(); err != nil {
			return err
		}
	}
	for _, write := range t.writes {
		write()
	}
	return nil
}

// Rollback discards the staged writes and releases locks.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.release()
	return nil
}

// --- seeding helpers for data owned by other services ---

// PutReward inserts or replaces a catalog item.
func (s *Store) PutReward(r domain.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Stock != nil {
		stock := *r.Stock
		r.Stock = &stock
	}
	s.rewards[r.ID] = r
}

// Reward returns a copy of a catalog item.
func (s *Store) Reward(id string) (domain.Reward, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rewards[id]
	if ok && r.Stock != nil {
		stock := *r.Stock
		r.Stock = &stock
	}
	return r, ok
}

// RecordCarbonAction stores a carbon-tracker action.
func (s *Store) RecordCarbonAction(accountID, actionType string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carbon[accountID] = append(s.carbon[accountID], timedKey{key: actionType, at: at})
}

// RecordGameSubmission stores a game result submission.
func (s *Store) RecordGameSubmission(accountID, gameID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[accountID] = append(s.games[accountID], timedKey{key: gameID, at: at})
}

// SetUsage overwrites an account's usage counter.
func (s *Store) SetUsage(u domain.UsageCounter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[u.AccountID] = u
}

// --- read helpers shared by the repositories; callers hold s.mu ---

func newestTimes(records []timedKey, match func(timedKey) bool, limit int) []time.Time {
	var out []time.Time
	for i := len(records) - 1; i >= 0; i-- {
		if match(records[i]) {
			out = append(out, records[i].at)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].After(out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// newestTxns returns matching transactions newest first.
func (s *Store) newestTxns(accountID string, match func(*domain.Transaction) bool, limit int) []domain.Transaction {
	list := s.txns[accountID]
	var out []domain.Transaction
	for i := len(list) - 1; i >= 0; i-- {
		if match(&list[i]) {
			out = append(out, list[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func accountKey(id string) string { return "account:" + id }
func rewardKey(id string) string  { return "reward:" + id }

func wrap(op string, err error) error {
	return fmt.Errorf("memory %s: %w", op, err)
}
