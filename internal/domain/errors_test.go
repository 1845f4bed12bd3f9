package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recall-app/recall-api/internal/domain"
)

// Entity validation errors carry a classifying sentinel so callers can map
// them without enumerating every field error.
func TestValidationErrorsClassify(t *testing.T) {
	t.Parallel()

	validationErrs := []error{
		domain.ErrDeckNameEmpty,
		domain.ErrCardFrontEmpty,
		domain.ErrCardBackEmpty,
		domain.ErrInvalidDifficulty,
		domain.ErrInvalidPerformance,
		domain.ErrTransactionAmountZero,
		domain.ErrInvalidTransactionCategory,
	}
	for _, err := range validationErrs {
		assert.ErrorIs(t, err, domain.ErrValidation, err.Error())
	}

	idErrs := []error{
		domain.ErrDeckIDEmpty,
		domain.ErrDeckAccountIDEmpty,
		domain.ErrCardIDEmpty,
		domain.ErrCardAccountIDEmpty,
		domain.ErrCardDeckIDEmpty,
		domain.ErrTransactionIDEmpty,
		domain.ErrTransactionAccountIDEmpty,
	}
	for _, err := range idErrs {
		assert.ErrorIs(t, err, domain.ErrInvalidID, err.Error())
	}
}
