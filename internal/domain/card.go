package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds for a card. Difficulty is derived from recent review
// performance by the scheduler; 1.0 means easy, 5.0 means hard.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 5.0
)

// Performance bounds for a single review sample.
const (
	MinPerformance = 1
	MaxPerformance = 5
)

// Card-specific validation errors. Each wraps ErrValidation (or ErrInvalidID
// for identifier fields) so callers can classify failures with errors.Is.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrInvalidID)

	// ErrCardAccountIDEmpty is returned when a card's account ID is empty or nil.
	ErrCardAccountIDEmpty = fmt.Errorf("%w: card account ID cannot be empty", ErrInvalidID)

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = fmt.Errorf("%w: card deck ID cannot be empty", ErrInvalidID)

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrInvalidDifficulty is returned when a difficulty is outside [1,5].
	ErrInvalidDifficulty = fmt.Errorf("%w: difficulty must be between 1 and 5", ErrValidation)

	// ErrInvalidPerformance is returned when a review performance score is outside 1..5.
	ErrInvalidPerformance = fmt.Errorf("%w: performance must be between 1 and 5", ErrValidation)
)

// ReviewSample records one recall attempt against a card.
// Samples are append-only; past reviews are never removed or rewritten.
type ReviewSample struct {
	ReviewedAt  time.Time `json:"reviewed_at"`
	Performance int       `json:"performance"`
}

// Validate checks that the sample's performance score is in range.
func (s ReviewSample) Validate() error {
	if s.Performance < MinPerformance || s.Performance > MaxPerformance {
		return ErrInvalidPerformance
	}
	return nil
}

// ReviewSchedule is the pair of derived values the scheduler computes for a
// card after each review: when to show it next and how hard it currently is.
type ReviewSchedule struct {
	NextReviewAt time.Time `json:"next_review_at"`
	Difficulty   float64   `json:"difficulty"`
}

// Validate checks that the schedule's difficulty is within bounds.
func (s ReviewSchedule) Validate() error {
	if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}
	return nil
}

// Card represents a flashcard owned by an account, belonging to a deck.
// Difficulty and NextReviewAt are derived fields recomputed by the review
// scheduler on every submitted review; ReviewHistory is append-only.
type Card struct {
	ID            uuid.UUID      `json:"id"`
	AccountID     uuid.UUID      `json:"account_id"`
	DeckID        uuid.UUID      `json:"deck_id"`
	Front         string         `json:"front"`
	Back          string         `json:"back"`
	Difficulty    float64        `json:"difficulty"`
	NextReviewAt  time.Time      `json:"next_review_at"`
	ReviewHistory []ReviewSample `json:"review_history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. New cards start at a neutral
// difficulty of 3.0 and are due for review immediately.
// Returns an error if validation fails.
func NewCard(accountID, deckID uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:            uuid.New(),
		AccountID:     accountID,
		DeckID:        deckID,
		Front:         front,
		Back:          back,
		Difficulty:    3.0,
		NextReviewAt:  now,
		ReviewHistory: []ReviewSample{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.AccountID == uuid.Nil {
		return ErrCardAccountIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	if c.Difficulty < MinDifficulty || c.Difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}

	for _, sample := range c.ReviewHistory {
		if err := sample.Validate(); err != nil {
			return err
		}
	}

	return nil
}
