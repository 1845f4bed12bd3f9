package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend. Review history is
// stored as a JSONB array on the card row and only ever appended to.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := json.Marshal(card.ReviewHistory)
	if err != nil {
		return fmt.Errorf("%w: failed to encode review history: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, account_id, deck_id, front, back, difficulty,
			next_review_at, review_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.db.ExecContext(ctx, query,
		card.ID,
		card.AccountID,
		card.DeckID,
		card.Front,
		card.Back,
		card.Difficulty,
		card.NextReviewAt,
		history,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return mapError(err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = cardSelectColumns + ` WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(mapError(err)) {
			return nil, fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
		}
		return nil, mapError(err)
	}

	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
) ([]domain.Card, error) {
	const query = cardSelectColumns + ` WHERE deck_id = $1 ORDER BY created_at DESC`
	return s.queryCards(ctx, query, deckID)
}

// ListDue implements store.CardStore.ListDue
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	accountID uuid.UUID,
	now time.Time,
) ([]domain.Card, error) {
	const query = cardSelectColumns + `
		WHERE account_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC`
	return s.queryCards(ctx, query, accountID, now)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
// The sample append and the derived-field update happen in one statement so
// the stored history can never drift from the schedule computed for it.
func (s *PostgresCardStore) UpdateSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.ReviewSchedule,
	sample domain.ReviewSample,
) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if err := sample.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	encoded, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("%w: failed to encode review sample: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE cards
		SET difficulty = $2,
			next_review_at = $3,
			review_history = review_history || $4::jsonb,
			updated_at = $5
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		id,
		schedule.Difficulty,
		schedule.NextReviewAt,
		encoded,
		time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error("failed to update card schedule",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// SetSchedule implements store.CardStore.SetSchedule
func (s *PostgresCardStore) SetSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.ReviewSchedule,
) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE cards
		SET difficulty = $2,
			next_review_at = $3,
			updated_at = $4
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		id,
		schedule.Difficulty,
		schedule.NextReviewAt,
		time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error("failed to set card schedule",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

const cardSelectColumns = `
	SELECT id, account_id, deck_id, front, back, difficulty,
		next_review_at, review_history, created_at, updated_at
	FROM cards`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var history []byte
	if err := row.Scan(
		&card.ID,
		&card.AccountID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Difficulty,
		&card.NextReviewAt,
		&history,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(history, &card.ReviewHistory); err != nil {
		return nil, fmt.Errorf("%w: failed to decode review history: %v", store.ErrInvalidEntity, err)
	}

	return &card, nil
}

func (s *PostgresCardStore) queryCards(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, mapError(err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return cards, nil
}
