package sched

import (
	"math"
	"time"

	"github.com/recall-app/recall-api/internal/domain"
)

// calculateNextReviewDate determines when the card should next be reviewed.
//
// The interval is a straight lookup from the performance score: poor recall
// (1) schedules the card again tomorrow, perfect recall (5) pushes it out
// two weeks. The lookup table lives in Params so deployments can tune it.
//
// Parameters:
//   - performance: The validated performance score (1..5)
//   - now: The time the review was performed
//   - params: Configuration parameters for the scheduling algorithm
//
// Returns:
//   - A time.Time value representing when the card should next be reviewed
func calculateNextReviewDate(performance int, now time.Time, params *Params) time.Time {
	interval := params.ReviewIntervals[performance]
	return now.AddDate(0, 0, interval)
}

// calculateDifficulty derives a card's difficulty from its recent review
// performance.
//
// It takes the mean of the most recent params.DifficultyWindow samples
// (the new sample plus the tail of the stored history, fewer when the
// history is shorter) and inverts it onto the difficulty scale:
//
//	difficulty = round((6 - mean) * 10) / 10
//
// High recent performance therefore yields a low difficulty (the card is
// easy) and low recent performance yields a high difficulty. The result
// carries one decimal place of precision and always lands in [1, 5] for
// valid input scores.
//
// Parameters:
//   - history: The card's stored review samples, oldest first
//   - newPerformance: The score of the review being submitted (1..5)
//   - params: Configuration parameters for the scheduling algorithm
//
// Returns:
//   - The derived difficulty value
func calculateDifficulty(history []domain.ReviewSample, newPerformance int, params *Params) float64 {
	// Collect the window: the new sample counts as the most recent one.
	window := make([]int, 0, params.DifficultyWindow)
	window = append(window, newPerformance)

	for i := len(history) - 1; i >= 0 && len(window) < params.DifficultyWindow; i-- {
		window = append(window, history[i].Performance)
	}

	var sum int
	for _, performance := range window {
		sum += performance
	}
	mean := float64(sum) / float64(len(window))

	return math.Round((6-mean)*10) / 10
}

// calculateSchedule computes the full review schedule for a card after a
// review, combining the next-review-date lookup with the difficulty
// derivation. It is a pure function: the caller supplies the clock, and the
// stored history is never modified. Appending the new sample to it is the
// caller's responsibility.
func calculateSchedule(
	history []domain.ReviewSample,
	performance int,
	now time.Time,
	params *Params,
) domain.ReviewSchedule {
	return domain.ReviewSchedule{
		NextReviewAt: calculateNextReviewDate(performance, now, params),
		Difficulty:   calculateDifficulty(history, performance, params),
	}
}
