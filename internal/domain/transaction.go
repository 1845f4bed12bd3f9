package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transaction-specific validation errors. Each wraps ErrValidation (or
// ErrInvalidID for identifier fields) so callers can classify failures with
// errors.Is.
var (
	// ErrTransactionIDEmpty is returned when a transaction ID is empty or nil.
	ErrTransactionIDEmpty = fmt.Errorf("%w: transaction ID cannot be empty", ErrInvalidID)

	// ErrTransactionAccountIDEmpty is returned when a transaction's account ID is empty or nil.
	ErrTransactionAccountIDEmpty = fmt.Errorf("%w: transaction account ID cannot be empty", ErrInvalidID)

	// ErrTransactionAmountZero is returned when a transaction amount is zero.
	ErrTransactionAmountZero = fmt.Errorf("%w: transaction amount cannot be zero", ErrValidation)

	// ErrInvalidTransactionCategory is returned when a transaction category is not
	// one of the known values.
	ErrInvalidTransactionCategory = fmt.Errorf("%w: invalid transaction category", ErrValidation)
)

// TransactionCategory classifies why an account's balance changed.
// It is a closed set; Validate rejects anything outside the constants below,
// and the credit_transactions table enforces the same set with a CHECK constraint.
type TransactionCategory string

// Known transaction categories
const (
	CategoryPurchase       TransactionCategory = "PURCHASE"
	CategoryAdminGrant     TransactionCategory = "ADMIN_GRANT"
	CategoryAdminDeduction TransactionCategory = "ADMIN_DEDUCTION"
	CategoryCardCreation   TransactionCategory = "CARD_CREATION"
	CategoryRefund         TransactionCategory = "REFUND"
	CategorySignupBonus    TransactionCategory = "SIGNUP_BONUS"
)

// Validate checks that the category is one of the known values.
func (c TransactionCategory) Validate() error {
	switch c {
	case CategoryPurchase,
		CategoryAdminGrant,
		CategoryAdminDeduction,
		CategoryCardCreation,
		CategoryRefund,
		CategorySignupBonus:
		return nil
	default:
		return ErrInvalidTransactionCategory
	}
}

// Transaction is one append-only entry in the credit ledger's audit trail.
// Amount is signed: positive amounts are credits, negative amounts are debits.
// Transactions are immutable once written; they are never updated or deleted.
type Transaction struct {
	ID          uuid.UUID           `json:"id"`
	AccountID   uuid.UUID           `json:"account_id"`
	Amount      int64               `json:"amount"`
	Description string              `json:"description"`
	Category    TransactionCategory `json:"category"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewTransaction creates a ledger transaction for the given account.
// The amount is the signed delta to record; the sign is chosen by the
// ledger service, not by external callers.
// Returns an error if validation fails.
func NewTransaction(
	accountID uuid.UUID,
	amount int64,
	description string,
	category TransactionCategory,
) (*Transaction, error) {
	txn := &Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	return txn, nil
}

// Validate checks if the Transaction has valid data.
// Returns an error if any field fails validation.
func (t *Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTransactionIDEmpty
	}

	if t.AccountID == uuid.Nil {
		return ErrTransactionAccountIDEmpty
	}

	if t.Amount == 0 {
		return ErrTransactionAmountZero
	}

	return t.Category.Validate()
}

// IsCredit reports whether the transaction increased the balance.
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}
