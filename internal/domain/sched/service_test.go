package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-app/recall-api/internal/domain"
)

func TestServiceSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("empty history with perfect recall", func(t *testing.T) {
		t.Parallel()
		schedule, err := svc.Schedule(nil, 5, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 14), schedule.NextReviewAt)
		assert.Equal(t, 1.0, schedule.Difficulty)
	})

	t.Run("recent struggles raise difficulty", func(t *testing.T) {
		t.Parallel()
		history := sampleHistory(2, 1)
		schedule, err := svc.Schedule(history, 5, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 14), schedule.NextReviewAt)
		assert.Equal(t, 3.3, schedule.Difficulty)
	})

	t.Run("rejects out of range performance", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Schedule(nil, 0, now)
		assert.ErrorIs(t, err, ErrInvalidPerformance)

		_, err = svc.Schedule(nil, 6, now)
		assert.ErrorIs(t, err, ErrInvalidPerformance)
	})

	t.Run("schedule validates against domain bounds", func(t *testing.T) {
		t.Parallel()
		for performance := domain.MinPerformance; performance <= domain.MaxPerformance; performance++ {
			schedule, err := svc.Schedule(sampleHistory(1, 5, 3), performance, now)
			require.NoError(t, err)
			assert.NoError(t, schedule.Validate(), "performance %d", performance)
		}
	})
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	original := domain.ReviewSchedule{
		NextReviewAt: now.AddDate(0, 0, 4),
		Difficulty:   2.5,
	}

	t.Run("pushes review date forward", func(t *testing.T) {
		t.Parallel()
		postponed, err := svc.Postpone(original, 3)
		require.NoError(t, err)
		assert.Equal(t, original.NextReviewAt.AddDate(0, 0, 3), postponed.NextReviewAt)
		assert.Equal(t, original.Difficulty, postponed.Difficulty)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Postpone(original, 0)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})
}

func TestServiceWithCustomParams(t *testing.T) {
	t.Parallel()
	svc := NewServiceWithParams(NewParams(ParamsConfig{
		PerformanceFiveInterval: 30,
		DifficultyWindow:        1,
	}))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	schedule, err := svc.Schedule(sampleHistory(1, 1), 5, now)
	require.NoError(t, err)

	// A window of one ignores the stored history entirely.
	assert.Equal(t, 1.0, schedule.Difficulty)
	assert.Equal(t, now.AddDate(0, 0, 30), schedule.NextReviewAt)
}
