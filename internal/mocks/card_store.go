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

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, card *domain.Card) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	UpdateScheduleFn func(ctx context.Context, id uuid.UUID, schedule domain.ReviewSchedule, sample domain.ReviewSample) error
	SetScheduleFn    func(ctx context.Context, id uuid.UUID, schedule domain.ReviewSchedule) error

	// Data for default implementation
	mu    sync.Mutex
	Cards map[uuid.UUID]*domain.Card

	// Error injection for default implementation
	CreateError         error
	GetByIDError        error
	UpdateScheduleError error
	SetScheduleError    error
}

// NewMockCardStore creates a new mock store with initialized defaults
func NewMockCardStore() *MockCardStore {
	return &MockCardStore{
		Cards: make(map[uuid.UUID]*domain.Card),
	}
}

// Ensure MockCardStore implements store.CardStore
var _ store.CardStore = (*MockCardStore)(nil)

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := card.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *card
	m.Cards[card.ID] = &copied
	return nil
}

// GetByID implements the CardStore interface
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.Cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}

	copied := *card
	copied.ReviewHistory = append([]domain.ReviewSample(nil), card.ReviewHistory...)
	return &copied, nil
}

// ListByDeck implements the CardStore interface
func (m *MockCardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cards := make([]domain.Card, 0)
	for _, card := range m.Cards {
		if card.DeckID == deckID {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// ListDue implements the CardStore interface
func (m *MockCardStore) ListDue(
	ctx context.Context,
	accountID uuid.UUID,
	now time.Time,
) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cards := make([]domain.Card, 0)
	for _, card := range m.Cards {
		if card.AccountID == accountID && !card.NextReviewAt.After(now) {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// UpdateSchedule implements the CardStore interface
func (m *MockCardStore) UpdateSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.ReviewSchedule,
	sample domain.ReviewSample,
) error {
	if m.UpdateScheduleFn != nil {
		return m.UpdateScheduleFn(ctx, id, schedule, sample)
	}

	if m.UpdateScheduleError != nil {
		return m.UpdateScheduleError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.Cards[id]
	if !ok {
		return store.ErrCardNotFound
	}

	card.Difficulty = schedule.Difficulty
	card.NextReviewAt = schedule.NextReviewAt
	card.ReviewHistory = append(card.ReviewHistory, sample)
	card.UpdatedAt = time.Now().UTC()
	return nil
}

// SetSchedule implements the CardStore interface
func (m *MockCardStore) SetSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.ReviewSchedule,
) error {
	if m.SetScheduleFn != nil {
		return m.SetScheduleFn(ctx, id, schedule)
	}

	if m.SetScheduleError != nil {
		return m.SetScheduleError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.Cards[id]
	if !ok {
		return store.ErrCardNotFound
	}

	card.Difficulty = schedule.Difficulty
	card.NextReviewAt = schedule.NextReviewAt
	card.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements the CardStore interface
func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// WithTx implements the CardStore interface.
// The mock has no real transactions, so it returns itself.
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
