package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/domain"
)

// MockService implements Service for tests in packages that depend on the
// ledger. Function fields override individual operations; otherwise an
// in-memory balance map and record slice back a working default.
type MockService struct {
	GetBalanceFn           func(ctx context.Context, accountID uuid.UUID) (int64, error)
	HasSufficientBalanceFn func(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error)
	DebitFn                func(ctx context.Context, accountID uuid.UUID, amount int64, description string, category domain.TransactionCategory) (int64, error)
	CreditFn               func(ctx context.Context, accountID uuid.UUID, amount int64, description string, category domain.TransactionCategory) (int64, error)
	GetHistoryFn           func(ctx context.Context, accountID uuid.UUID, pageSize, page int) (*HistoryPage, error)
	GetSystemHistoryFn     func(ctx context.Context, pageSize, page int) (*HistoryPage, error)

	mu       sync.Mutex
	balances map[uuid.UUID]int64
	records  []domain.Transaction

	DebitError  error
	CreditError error
}

// NewMockService creates a mock ledger with initialized in-memory state.
func NewMockService() *MockService {
	return &MockService{
		balances: make(map[uuid.UUID]int64),
	}
}

var _ Service = (*MockService)(nil)

// SetBalance seeds an account balance for test setup.
func (m *MockService) SetBalance(accountID uuid.UUID, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = balance
}

// Records returns a copy of every transaction the default implementations
// recorded, oldest first.
func (m *MockService) Records() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.records))
	copy(out, m.records)
	return out
}

// GetBalance implements the Service interface.
func (m *MockService) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if m.GetBalanceFn != nil {
		return m.GetBalanceFn(ctx, accountID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[accountID], nil
}

// HasSufficientBalance implements the Service interface.
func (m *MockService) HasSufficientBalance(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
) (bool, error) {
	if m.HasSufficientBalanceFn != nil {
		return m.HasSufficientBalanceFn(ctx, accountID, amount)
	}
	if amount < 0 {
		return false, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[accountID] >= amount, nil
}

// Debit implements the Service interface.
func (m *MockService) Debit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	description string,
	category domain.TransactionCategory,
) (int64, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, accountID, amount, description, category)
	}
	if m.DebitError != nil {
		return 0, m.DebitError
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] -= amount
	m.records = append(m.records, *mustTransaction(accountID, -amount, description, category))
	return m.balances[accountID], nil
}

// Credit implements the Service interface.
func (m *MockService) Credit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	description string,
	category domain.TransactionCategory,
) (int64, error) {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, accountID, amount, description, category)
	}
	if m.CreditError != nil {
		return 0, m.CreditError
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] += amount
	m.records = append(m.records, *mustTransaction(accountID, amount, description, category))
	return m.balances[accountID], nil
}

// GetHistory implements the Service interface. The default serves the
// recorded transactions newest-first with the same paging semantics as the
// real service.
func (m *MockService) GetHistory(
	ctx context.Context,
	accountID uuid.UUID,
	pageSize, page int,
) (*HistoryPage, error) {
	if m.GetHistoryFn != nil {
		return m.GetHistoryFn(ctx, accountID, pageSize, page)
	}
	if pageSize < 1 || page < 1 {
		return nil, ErrInvalidPage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matching []domain.Transaction
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].AccountID == accountID {
			matching = append(matching, m.records[i])
		}
	}
	return paginateRecords(matching, pageSize, page), nil
}

// GetSystemHistory implements the Service interface.
func (m *MockService) GetSystemHistory(ctx context.Context, pageSize, page int) (*HistoryPage, error) {
	if m.GetSystemHistoryFn != nil {
		return m.GetSystemHistoryFn(ctx, pageSize, page)
	}
	if pageSize < 1 || page < 1 {
		return nil, ErrInvalidPage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matching := make([]domain.Transaction, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		matching = append(matching, m.records[i])
	}
	return paginateRecords(matching, pageSize, page), nil
}

func paginateRecords(newestFirst []domain.Transaction, pageSize, page int) *HistoryPage {
	total := int64(len(newestFirst))
	start := (page - 1) * pageSize
	if start > len(newestFirst) {
		start = len(newestFirst)
	}
	end := start + pageSize
	if end > len(newestFirst) {
		end = len(newestFirst)
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &HistoryPage{
		Records:    newestFirst[start:end],
		TotalCount: total,
		TotalPages: totalPages,
	}
}

func mustTransaction(
	accountID uuid.UUID,
	amount int64,
	description string,
	category domain.TransactionCategory,
) *domain.Transaction {
	tx, err := domain.NewTransaction(accountID, amount, description, category)
	if err != nil {
		panic(err)
	}
	return tx
}
