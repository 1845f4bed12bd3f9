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

// MockDeckStore implements store.DeckStore for testing
type MockDeckStore struct {
	// Data for default implementation
	mu    sync.Mutex
	Decks map[uuid.UUID]*domain.Deck

	// Error injection for default implementation
	CreateError  error
	GetByIDError error
}

// NewMockDeckStore creates a new mock store with initialized defaults
func NewMockDeckStore() *MockDeckStore {
	return &MockDeckStore{
		Decks: make(map[uuid.UUID]*domain.Deck),
	}
}

// Ensure MockDeckStore implements store.DeckStore
var _ store.DeckStore = (*MockDeckStore)(nil)

// Create implements the DeckStore interface
func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateError != nil {
		return m.CreateError
	}

	if err := deck.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *deck
	m.Decks[deck.ID] = &copied
	return nil
}

// GetByID implements the DeckStore interface
func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deck, ok := m.Decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}

	copied := *deck
	return &copied, nil
}

// ListByAccount implements the DeckStore interface
func (m *MockDeckStore) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	decks := make([]domain.Deck, 0)
	for _, deck := range m.Decks {
		if deck.AccountID == accountID {
			decks = append(decks, *deck)
		}
	}
	return decks, nil
}

// Update implements the DeckStore interface
func (m *MockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Decks[deck.ID]
	if !ok {
		return store.ErrDeckNotFound
	}

	existing.Name = deck.Name
	existing.Description = deck.Description
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements the DeckStore interface
func (m *MockDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(m.Decks, id)
	return nil
}

// WithTx implements the DeckStore interface.
// The mock has no real transactions, so it returns itself.
func (m *MockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}
