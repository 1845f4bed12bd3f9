// Package cards implements deck and card management, the credit gate on card
// creation, and review submission against the scheduling rules.
package cards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/domain/sched"
	"github.com/recall-app/recall-api/internal/events"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/store"
)

// cardCreationDescription is recorded on the ledger for every card debit.
const cardCreationDescription = "Card creation"

var (
	// ErrInsufficientCredits indicates the account cannot cover the card
	// creation cost.
	ErrInsufficientCredits = errors.New("insufficient credits for card creation")

	// ErrNotOwned indicates the caller tried to act on a deck or card owned
	// by a different account. It wraps domain.ErrUnauthorized so callers can
	// classify it without importing this package.
	ErrNotOwned = fmt.Errorf("%w: resource is not owned by this account", domain.ErrUnauthorized)
)

// Service manages decks and cards for an account.
type Service interface {
	// CreateDeck creates an empty deck owned by the account.
	CreateDeck(ctx context.Context, accountID uuid.UUID, name, description string) (*domain.Deck, error)

	// GetDeck retrieves a deck, enforcing ownership.
	GetDeck(ctx context.Context, accountID, deckID uuid.UUID) (*domain.Deck, error)

	// ListDecks retrieves all decks owned by the account, newest-first.
	ListDecks(ctx context.Context, accountID uuid.UUID) ([]domain.Deck, error)

	// UpdateDeck renames a deck or changes its description, enforcing ownership.
	UpdateDeck(ctx context.Context, accountID, deckID uuid.UUID, name, description string) (*domain.Deck, error)

	// DeleteDeck removes a deck and its cards, enforcing ownership.
	DeleteDeck(ctx context.Context, accountID, deckID uuid.UUID) error

	// CreateCard creates a card in the deck and debits the card creation
	// cost from the account. The account must be able to cover the cost up
	// front; otherwise ErrInsufficientCredits is returned and no card is
	// created.
	CreateCard(ctx context.Context, accountID, deckID uuid.UUID, front, back string) (*domain.Card, error)

	// GetCard retrieves a card with its review history, enforcing ownership.
	GetCard(ctx context.Context, accountID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards retrieves all cards in a deck, enforcing deck ownership.
	ListCards(ctx context.Context, accountID, deckID uuid.UUID) ([]domain.Card, error)

	// ListDueCards retrieves the account's cards due for review now,
	// soonest-due first.
	ListDueCards(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error)

	// SubmitReview records a review outcome for the card: it computes the
	// new difficulty and next review date from the card's history plus the
	// submitted performance score, then persists the sample and the updated
	// schedule. Returns the card as it stands after the review.
	SubmitReview(ctx context.Context, accountID, cardID uuid.UUID, performance int) (*domain.Card, error)

	// PostponeCard pushes a card's next review date forward by the given
	// number of days without recording a review.
	PostponeCard(ctx context.Context, accountID, cardID uuid.UUID, days int) (*domain.Card, error)

	// DeleteCard removes a card, enforcing ownership. Spent credits are not
	// refunded.
	DeleteCard(ctx context.Context, accountID, cardID uuid.UUID) error
}

type serviceImpl struct {
	cardStore store.CardStore
	deckStore store.DeckStore
	ledger    ledger.Service
	scheduler sched.Service
	emitter   events.Emitter
	logger    *slog.Logger

	creationCost int64
	now          func() time.Time
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a card management service. creationCost is the number of
// credits debited for each new card and must be positive. The emitter may be
// nil when no component listens for review events.
func NewService(
	cardStore store.CardStore,
	deckStore store.DeckStore,
	ledgerService ledger.Service,
	scheduler sched.Service,
	emitter events.Emitter,
	creationCost int64,
	logger *slog.Logger,
) Service {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if ledgerService == nil {
		panic("ledgerService cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if creationCost <= 0 {
		panic("creationCost must be positive")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &serviceImpl{
		cardStore:    cardStore,
		deckStore:    deckStore,
		ledger:       ledgerService,
		scheduler:    scheduler,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "card_service")),
		creationCost: creationCost,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateDeck implements the Service interface.
func (s *serviceImpl) CreateDeck(
	ctx context.Context,
	accountID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(accountID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.deckStore.Create(ctx, deck); err != nil {
		return nil, fmt.Errorf("creating deck: %w", err)
	}

	s.logger.DebugContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("account_id", accountID.String()))
	return deck, nil
}

// GetDeck implements the Service interface.
func (s *serviceImpl) GetDeck(ctx context.Context, accountID, deckID uuid.UUID) (*domain.Deck, error) {
	return s.ownedDeck(ctx, accountID, deckID)
}

// ListDecks implements the Service interface.
func (s *serviceImpl) ListDecks(ctx context.Context, accountID uuid.UUID) ([]domain.Deck, error) {
	decks, err := s.deckStore.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	return decks, nil
}

// UpdateDeck implements the Service interface.
func (s *serviceImpl) UpdateDeck(
	ctx context.Context,
	accountID, deckID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	deck, err := s.ownedDeck(ctx, accountID, deckID)
	if err != nil {
		return nil, err
	}

	deck.Name = name
	deck.Description = description
	deck.UpdatedAt = s.now()
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	if err := s.deckStore.Update(ctx, deck); err != nil {
		return nil, fmt.Errorf("updating deck: %w", err)
	}
	return deck, nil
}

// DeleteDeck implements the Service interface.
func (s *serviceImpl) DeleteDeck(ctx context.Context, accountID, deckID uuid.UUID) error {
	if _, err := s.ownedDeck(ctx, accountID, deckID); err != nil {
		return err
	}
	if err := s.deckStore.Delete(ctx, deckID); err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}

	s.logger.InfoContext(ctx, "deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("account_id", accountID.String()))
	return nil
}

// CreateCard implements the Service interface.
func (s *serviceImpl) CreateCard(
	ctx context.Context,
	accountID, deckID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	if _, err := s.ownedDeck(ctx, accountID, deckID); err != nil {
		return nil, err
	}

	ok, err := s.ledger.HasSufficientBalance(ctx, accountID, s.creationCost)
	if err != nil {
		return nil, fmt.Errorf("checking balance: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientCredits
	}

	card, err := domain.NewCard(accountID, deckID, front, back)
	if err != nil {
		return nil, err
	}
	if err := s.cardStore.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	newBalance, err := s.ledger.Debit(
		ctx, accountID, s.creationCost, cardCreationDescription, domain.CategoryCardCreation)
	if err != nil {
		// The card exists but the debit failed. Undo the creation so the
		// account is not given a free card.
		if deleteErr := s.cardStore.Delete(ctx, card.ID); deleteErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove card after debit failure",
				slog.String("card_id", card.ID.String()),
				slog.String("error", deleteErr.Error()))
		}
		return nil, fmt.Errorf("debiting card creation cost: %w", err)
	}

	s.logger.InfoContext(ctx, "card created",
		slog.String("card_id", card.ID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int64("new_balance", newBalance))
	return card, nil
}

// GetCard implements the Service interface.
func (s *serviceImpl) GetCard(ctx context.Context, accountID, cardID uuid.UUID) (*domain.Card, error) {
	return s.ownedCard(ctx, accountID, cardID)
}

// ListCards implements the Service interface.
func (s *serviceImpl) ListCards(
	ctx context.Context,
	accountID, deckID uuid.UUID,
) ([]domain.Card, error) {
	if _, err := s.ownedDeck(ctx, accountID, deckID); err != nil {
		return nil, err
	}
	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// ListDueCards implements the Service interface.
func (s *serviceImpl) ListDueCards(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error) {
	cards, err := s.cardStore.ListDue(ctx, accountID, s.now())
	if err != nil {
		return nil, fmt.Errorf("listing due cards: %w", err)
	}
	return cards, nil
}

// SubmitReview implements the Service interface.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	accountID, cardID uuid.UUID,
	performance int,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, accountID, cardID)
	if err != nil {
		return nil, err
	}

	reviewedAt := s.now()
	schedule, err := s.scheduler.Schedule(card.ReviewHistory, performance, reviewedAt)
	if err != nil {
		return nil, err
	}

	sample := domain.ReviewSample{
		ReviewedAt:  reviewedAt,
		Performance: performance,
	}
	if err := s.cardStore.UpdateSchedule(ctx, cardID, schedule, sample); err != nil {
		return nil, fmt.Errorf("persisting review: %w", err)
	}

	card.ReviewHistory = append(card.ReviewHistory, sample)
	card.Difficulty = schedule.Difficulty
	card.NextReviewAt = schedule.NextReviewAt
	card.UpdatedAt = reviewedAt

	s.emitReviewed(ctx, card, performance)

	s.logger.DebugContext(ctx, "review recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("performance", performance),
		slog.Float64("difficulty", schedule.Difficulty),
		slog.Time("next_review_at", schedule.NextReviewAt))
	return card, nil
}

// PostponeCard implements the Service interface.
func (s *serviceImpl) PostponeCard(
	ctx context.Context,
	accountID, cardID uuid.UUID,
	days int,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, accountID, cardID)
	if err != nil {
		return nil, err
	}

	current := domain.ReviewSchedule{
		NextReviewAt: card.NextReviewAt,
		Difficulty:   card.Difficulty,
	}
	schedule, err := s.scheduler.Postpone(current, days)
	if err != nil {
		return nil, err
	}

	// Postponing records no sample, so only the schedule is written.
	if err := s.cardStore.SetSchedule(ctx, cardID, schedule); err != nil {
		return nil, fmt.Errorf("persisting postponement: %w", err)
	}

	card.NextReviewAt = schedule.NextReviewAt
	card.UpdatedAt = s.now()
	return card, nil
}

// DeleteCard implements the Service interface.
func (s *serviceImpl) DeleteCard(ctx context.Context, accountID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, accountID, cardID); err != nil {
		return err
	}
	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	return nil
}

// ownedDeck loads the deck and verifies it belongs to the account.
func (s *serviceImpl) ownedDeck(
	ctx context.Context,
	accountID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.AccountID != accountID {
		return nil, ErrNotOwned
	}
	return deck, nil
}

// ownedCard loads the card and verifies it belongs to the account.
func (s *serviceImpl) ownedCard(
	ctx context.Context,
	accountID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.AccountID != accountID {
		return nil, ErrNotOwned
	}
	return card, nil
}

func (s *serviceImpl) emitReviewed(ctx context.Context, card *domain.Card, performance int) {
	if s.emitter == nil {
		return
	}

	payload := events.CardReviewed{
		CardID:       card.ID,
		AccountID:    card.AccountID,
		Performance:  performance,
		Difficulty:   card.Difficulty,
		NextReviewAt: card.NextReviewAt,
	}
	event, err := events.NewEvent(events.TypeCardReviewed, payload)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build review event",
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit review event",
			slog.String("error", err.Error()))
	}
}
