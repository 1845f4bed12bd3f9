package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
// Version: 1.0
type CardStore interface {
	// Create saves a new card to the store.
	// The card must be valid according to domain validation rules.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID, including its review
	// history. Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck retrieves all cards in a deck, newest-first.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)

	// ListDue retrieves the account's cards whose next review date is at or
	// before now, ordered soonest-due first.
	ListDue(ctx context.Context, accountID uuid.UUID, now time.Time) ([]domain.Card, error)

	// UpdateSchedule appends one review sample to the card's history and
	// sets the derived difficulty and next review date in a single update.
	// The stored history is append-only; past samples are never rewritten.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateSchedule(
		ctx context.Context,
		id uuid.UUID,
		schedule domain.ReviewSchedule,
		sample domain.ReviewSample,
	) error

	// SetSchedule overwrites the card's difficulty and next review date
	// without touching the review history. Used for postponements.
	// Returns ErrCardNotFound if the card does not exist.
	SetSchedule(ctx context.Context, id uuid.UUID, schedule domain.ReviewSchedule) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service via store.RunInTransaction).
	WithTx(tx *sql.Tx) CardStore
}

// DeckStore defines the interface for deck data persistence.
// Version: 1.0
type DeckStore interface {
	// Create saves a new deck to the store.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListByAccount retrieves all decks owned by an account, newest-first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Deck, error)

	// Update modifies a deck's name and description.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck and, via database-level CASCADE, its cards.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
