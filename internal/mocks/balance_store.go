package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/store"
)

// MockBalanceStore implements store.BalanceStore for testing
type MockBalanceStore struct {
	// Function fields for customizable behavior
	GetFn        func(ctx context.Context, accountID uuid.UUID) (*domain.AccountBalance, error)
	ApplyDeltaFn func(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error)

	// Data for default implementation
	mu       sync.Mutex
	Balances map[uuid.UUID]int64

	// Error injection for default implementation
	GetError        error
	ApplyDeltaError error
}

// NewMockBalanceStore creates a new mock store with initialized defaults
func NewMockBalanceStore() *MockBalanceStore {
	return &MockBalanceStore{
		Balances: make(map[uuid.UUID]int64),
	}
}

// Ensure MockBalanceStore implements store.BalanceStore
var _ store.BalanceStore = (*MockBalanceStore)(nil)

// Get implements the BalanceStore interface
func (m *MockBalanceStore) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*domain.AccountBalance, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, accountID)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.Balances[accountID]
	if !ok {
		return nil, store.ErrBalanceNotFound
	}

	return &domain.AccountBalance{
		AccountID: accountID,
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// ApplyDelta implements the BalanceStore interface
func (m *MockBalanceStore) ApplyDelta(
	ctx context.Context,
	accountID uuid.UUID,
	delta int64,
) (int64, error) {
	if m.ApplyDeltaFn != nil {
		return m.ApplyDeltaFn(ctx, accountID, delta)
	}

	if m.ApplyDeltaError != nil {
		return 0, m.ApplyDeltaError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Balances[accountID] += delta
	return m.Balances[accountID], nil
}

// WithTx implements the BalanceStore interface.
// The mock has no real transactions, so it returns itself.
func (m *MockBalanceStore) WithTx(tx *sql.Tx) store.BalanceStore {
	return m
}

// SetBalance seeds an account balance for test setup.
func (m *MockBalanceStore) SetBalance(accountID uuid.UUID, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[accountID] = balance
}

// SnapshotBalances returns a copy of the current balance map. Tests use it
// together with RestoreBalances to emulate transaction rollback.
func (m *MockBalanceStore) SnapshotBalances() map[uuid.UUID]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[uuid.UUID]int64, len(m.Balances))
	for id, balance := range m.Balances {
		snapshot[id] = balance
	}
	return snapshot
}

// RestoreBalances replaces the balance map with a previously taken snapshot.
func (m *MockBalanceStore) RestoreBalances(snapshot map[uuid.UUID]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances = snapshot
}
