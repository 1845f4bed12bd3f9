package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/recall-app/recall-api/internal/api/shared"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/domain/sched"
	"github.com/recall-app/recall-api/internal/service/admin"
	"github.com/recall-app/recall-api/internal/service/cards"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/service/purchase"
	"github.com/recall-app/recall-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Payment required: the caller needs more credits, which is a distinct
	// condition from any other bad request.
	case errors.Is(err, admin.ErrInsufficientBalance),
		errors.Is(err, cards.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	// Authorization errors. cards.ErrNotOwned wraps domain.ErrUnauthorized,
	// so matching the domain sentinel covers both.
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrDeckNotFound),
		errors.Is(err, purchase.ErrPackageNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPage),
		errors.Is(err, admin.ErrInvalidAmount),
		errors.Is(err, sched.ErrInvalidPerformance),
		errors.Is(err, sched.ErrInvalidDays),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error. ErrLedgerWriteFailed lands here on
	// purpose: a failed atomic write is a server fault, not a client one.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Raw error strings never reach the client.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, cards.ErrInsufficientCredits):
		return "Insufficient credits to create a card"

	case errors.Is(err, admin.ErrInsufficientBalance):
		var insufficientErr *admin.InsufficientBalanceError
		if errors.As(err, &insufficientErr) {
			return fmt.Sprintf(
				"Insufficient balance: account has %d credits, deduction requires %d",
				insufficientErr.CurrentBalance, insufficientErr.Requested)
		}
		return "Insufficient balance"

	case errors.Is(err, domain.ErrUnauthorized):
		return "You do not own this resource"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, purchase.ErrPackageNotFound):
		return "Credit package not found"

	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, admin.ErrInvalidAmount):
		return "Invalid amount"

	case errors.Is(err, ledger.ErrInvalidPage):
		return "Invalid page parameters"

	case errors.Is(err, sched.ErrInvalidPerformance):
		return "Performance must be between 1 and 5"

	case errors.Is(err, sched.ErrInvalidDays):
		return "Days must be positive"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the mapped status code and sanitized message for
// a service-layer error, logging the real error with redaction.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns a validator error into a user-friendly
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()
	if !strings.Contains(errMsg, "Field validation") {
		return "Validation error"
	}

	// Example: "Key: 'CreateCardRequest.Front' Error:Field validation for
	// 'Front' failed on the 'required' tag"
	parts := strings.Split(errMsg, "Error:")
	if len(parts) < 2 {
		return "Validation error"
	}
	fieldParts := strings.Split(parts[1], "'")
	if len(fieldParts) < 3 {
		return "Validation error"
	}

	field := fieldParts[1]
	var tag string
	if len(fieldParts) >= 5 {
		tag = fieldParts[3]
	}
	if tag != "" {
		return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid ID format"
	case "min", "gte":
		return "value too small"
	case "max", "lte":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
