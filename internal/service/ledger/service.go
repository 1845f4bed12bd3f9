package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
)

// Common ledger service errors
var (
	// ErrInvalidAmount is returned when an operation receives a zero or
	// negative magnitude, or a non-positive page parameter.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrLedgerWriteFailed is returned when the atomic balance-update plus
	// log-append unit could not be committed. The operation is fully rolled
	// back; no partial state is observable and the call is safe to retry.
	ErrLedgerWriteFailed = errors.New("ledger write failed")

	// ErrInvalidPage is returned when pagination parameters are not positive.
	ErrInvalidPage = errors.New("invalid page parameters")
)

// HistoryPage is one page of an account's transaction history,
// ordered newest-first.
type HistoryPage struct {
	Records    []domain.Transaction `json:"records"`
	TotalCount int64                `json:"total_count"`
	TotalPages int64                `json:"total_pages"`
}

// Service is the credit ledger: the single owner of account balances and the
// append-only transaction log. Each debit or credit applies the balance
// change and appends exactly one log record as an atomic unit.
//
// Service deliberately does NOT enforce non-negative balances on Debit.
// Sufficiency policy belongs to call sites: callers check
// HasSufficientBalance first, and the admin adjustment facade layers the
// non-negative rule on top for discretionary deductions. Whether a negative
// balance is ever a meaningful state (debt) is an open product question, so
// the primitive stays permissive.
type Service interface {
	// GetBalance returns the account's current balance. Accounts with no
	// ledger activity yet have a balance of zero; this is not an error.
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)

	// HasSufficientBalance reports whether the account's balance covers
	// amount. Amount must be non-negative or ErrInvalidAmount is returned.
	HasSufficientBalance(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error)

	// Debit atomically decreases the balance by amount (a positive
	// magnitude) and appends a transaction record with Amount = -amount.
	// Returns the new balance. Storage failures surface as
	// ErrLedgerWriteFailed with every effect rolled back.
	Debit(
		ctx context.Context,
		accountID uuid.UUID,
		amount int64,
		description string,
		category domain.TransactionCategory,
	) (int64, error)

	// Credit atomically increases the balance by amount (a positive
	// magnitude) and appends a transaction record with Amount = +amount.
	// Returns the new balance.
	Credit(
		ctx context.Context,
		accountID uuid.UUID,
		amount int64,
		description string,
		category domain.TransactionCategory,
	) (int64, error)

	// GetHistory returns one 1-indexed page of the account's transactions,
	// newest-first. A page number past the end yields an empty page, not an
	// error.
	GetHistory(
		ctx context.Context,
		accountID uuid.UUID,
		pageSize, pageNumber int,
	) (*HistoryPage, error)

	// GetSystemHistory is GetHistory across all accounts, for the admin
	// collaborator's system-wide audit view.
	GetSystemHistory(ctx context.Context, pageSize, pageNumber int) (*HistoryPage, error)
}
