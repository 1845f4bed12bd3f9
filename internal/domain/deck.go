package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors. Each wraps ErrValidation (or ErrInvalidID
// for identifier fields) so callers can classify failures with errors.Is.
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = fmt.Errorf("%w: deck ID cannot be empty", ErrInvalidID)

	// ErrDeckAccountIDEmpty is returned when a deck's account ID is empty or nil.
	ErrDeckAccountIDEmpty = fmt.Errorf("%w: deck account ID cannot be empty", ErrInvalidID)

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = fmt.Errorf("%w: deck name cannot be empty", ErrValidation)
)

// Deck is a named collection of flashcards owned by one account.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck owned by the given account.
// Returns an error if validation fails.
func NewDeck(accountID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.AccountID == uuid.Nil {
		return ErrDeckAccountIDEmpty
	}

	if strings.TrimSpace(d.Name) == "" {
		return ErrDeckNameEmpty
	}

	return nil
}
