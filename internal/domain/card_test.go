package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-app/recall-api/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	t.Run("valid card starts neutral and due immediately", func(t *testing.T) {
		t.Parallel()
		account := uuid.New()
		deck := uuid.New()

		card, err := domain.NewCard(account, deck, "hola", "hello")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.InDelta(t, 3.0, card.Difficulty, 1e-9)
		assert.False(t, card.NextReviewAt.After(time.Now().UTC()))
		assert.Empty(t, card.ReviewHistory)
	})

	t.Run("empty front is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewCard(uuid.New(), uuid.New(), "", "hello")
		assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)
	})

	t.Run("empty back is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewCard(uuid.New(), uuid.New(), "hola", "")
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})

	t.Run("missing deck is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewCard(uuid.New(), uuid.Nil, "hola", "hello")
		assert.ErrorIs(t, err, domain.ErrCardDeckIDEmpty)
	})
}

func TestReviewSampleValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	assert.NoError(t, domain.ReviewSample{ReviewedAt: now, Performance: 1}.Validate())
	assert.NoError(t, domain.ReviewSample{ReviewedAt: now, Performance: 5}.Validate())
	assert.ErrorIs(t,
		domain.ReviewSample{ReviewedAt: now, Performance: 0}.Validate(),
		domain.ErrInvalidPerformance)
	assert.ErrorIs(t,
		domain.ReviewSample{ReviewedAt: now, Performance: 6}.Validate(),
		domain.ErrInvalidPerformance)
}

func TestReviewScheduleValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	assert.NoError(t, domain.ReviewSchedule{NextReviewAt: now, Difficulty: 1.0}.Validate())
	assert.NoError(t, domain.ReviewSchedule{NextReviewAt: now, Difficulty: 5.0}.Validate())
	assert.ErrorIs(t,
		domain.ReviewSchedule{NextReviewAt: now, Difficulty: 0.9}.Validate(),
		domain.ErrInvalidDifficulty)
	assert.ErrorIs(t,
		domain.ReviewSchedule{NextReviewAt: now, Difficulty: 5.1}.Validate(),
		domain.ErrInvalidDifficulty)
}

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck, err := domain.NewDeck(uuid.New(), "Spanish", "vocabulary")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", deck.Name)

	_, err = domain.NewDeck(uuid.New(), "", "")
	assert.Error(t, err)

	_, err = domain.NewDeck(uuid.Nil, "Spanish", "")
	assert.ErrorIs(t, err, domain.ErrDeckAccountIDEmpty)
}
