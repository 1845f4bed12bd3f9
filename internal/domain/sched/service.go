package sched

import (
	"errors"
	"time"

	"github.com/recall-app/recall-api/internal/domain"
)

// Common errors
var (
	ErrInvalidPerformance = errors.New("performance must be between 1 and 5")
	ErrInvalidDays        = errors.New("postpone days must be at least 1")
)

// Service defines the interface for review scheduling operations.
// Implementations must be pure with respect to storage: no I/O, and the
// current time is always an explicit argument so results are reproducible.
type Service interface {
	// Schedule computes the next review date and updated difficulty for a
	// card given its stored review history and a newly submitted performance
	// score. The history is read-only; persisting the new sample alongside
	// the returned schedule is the caller's responsibility.
	Schedule(
		history []domain.ReviewSample,
		performance int,
		now time.Time,
	) (domain.ReviewSchedule, error)

	// Postpone pushes an existing schedule's next review time forward by a
	// number of days without touching difficulty or history.
	Postpone(
		schedule domain.ReviewSchedule,
		days int,
	) (domain.ReviewSchedule, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	history []domain.ReviewSample,
	performance int,
	now time.Time,
) (domain.ReviewSchedule, error) {
	if performance < domain.MinPerformance || performance > domain.MaxPerformance {
		return domain.ReviewSchedule{}, ErrInvalidPerformance
	}

	return calculateSchedule(history, performance, now, s.params), nil
}

// Postpone implements the Service interface.
func (s *defaultService) Postpone(
	schedule domain.ReviewSchedule,
	days int,
) (domain.ReviewSchedule, error) {
	if days < 1 {
		return domain.ReviewSchedule{}, ErrInvalidDays
	}

	return domain.ReviewSchedule{
		NextReviewAt: schedule.NextReviewAt.AddDate(0, 0, days),
		Difficulty:   schedule.Difficulty,
	}, nil
}
