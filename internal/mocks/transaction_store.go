package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/store"
)

// MockTransactionStore implements store.TransactionStore for testing.
// The default implementation keeps transactions in memory in append order
// and serves lists newest-first, mirroring the real store's ordering.
type MockTransactionStore struct {
	// Function fields for customizable behavior
	AppendFn func(ctx context.Context, txn *domain.Transaction) error

	// Data for default implementation
	mu           sync.Mutex
	Transactions []domain.Transaction

	// Error injection for default implementation
	AppendError error
	ListError   error
	CountError  error
}

// NewMockTransactionStore creates a new mock store with initialized defaults
func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{
		Transactions: make([]domain.Transaction, 0),
	}
}

// Ensure MockTransactionStore implements store.TransactionStore
var _ store.TransactionStore = (*MockTransactionStore)(nil)

// Append implements the TransactionStore interface
func (m *MockTransactionStore) Append(ctx context.Context, txn *domain.Transaction) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, txn)
	}

	if m.AppendError != nil {
		return m.AppendError
	}

	if err := txn.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, *txn)
	return nil
}

// ListByAccount implements the TransactionStore interface
func (m *MockTransactionStore) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]domain.Transaction, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	return paginate(m.snapshotFor(accountID), limit, offset), nil
}

// CountByAccount implements the TransactionStore interface
func (m *MockTransactionStore) CountByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	return int64(len(m.snapshotFor(accountID))), nil
}

// List implements the TransactionStore interface
func (m *MockTransactionStore) List(
	ctx context.Context,
	limit, offset int,
) ([]domain.Transaction, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	return paginate(m.snapshotAll(), limit, offset), nil
}

// Count implements the TransactionStore interface
func (m *MockTransactionStore) Count(ctx context.Context) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	return int64(len(m.snapshotAll())), nil
}

// SumByAccount implements the TransactionStore interface
func (m *MockTransactionStore) SumByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (int64, error) {
	var sum int64
	for _, txn := range m.snapshotFor(accountID) {
		sum += txn.Amount
	}
	return sum, nil
}

// WithTx implements the TransactionStore interface.
// The mock has no real transactions, so it returns itself.
func (m *MockTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return m
}

// snapshotFor returns the account's transactions newest-first.
func (m *MockTransactionStore) snapshotFor(accountID uuid.UUID) []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]domain.Transaction, 0)
	for i := len(m.Transactions) - 1; i >= 0; i-- {
		if m.Transactions[i].AccountID == accountID {
			matched = append(matched, m.Transactions[i])
		}
	}
	return matched
}

// snapshotAll returns every transaction newest-first.
func (m *MockTransactionStore) snapshotAll() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]domain.Transaction, 0, len(m.Transactions))
	for i := len(m.Transactions) - 1; i >= 0; i-- {
		all = append(all, m.Transactions[i])
	}
	return all
}

func paginate(records []domain.Transaction, limit, offset int) []domain.Transaction {
	if offset >= len(records) {
		return []domain.Transaction{}
	}

	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
