// Package admin implements the administrative credit adjustment facade on
// top of the ledger. Unlike the ledger primitives, the facade enforces a
// non-negative balance: a deduction that would overdraw the account is
// rejected before the ledger is touched.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/service/ledger"
)

// Default descriptions recorded when the operator supplies no reason.
const (
	DefaultGrantReason     = "Admin credit grant"
	DefaultDeductionReason = "Admin credit deduction"
)

// ErrInvalidAmount indicates a zero adjustment, which has no meaning.
var ErrInvalidAmount = errors.New("adjustment amount cannot be zero")

// ErrInsufficientBalance indicates a deduction larger than the account's
// current balance. Callers match it with errors.Is; the concrete
// *InsufficientBalanceError carries the balance for error reporting.
var ErrInsufficientBalance = errors.New("insufficient balance")

// InsufficientBalanceError reports a rejected deduction together with the
// balance the account held at the time of the check.
type InsufficientBalanceError struct {
	CurrentBalance int64
	Requested      int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: have %d, deduction requires %d",
		e.CurrentBalance, e.Requested,
	)
}

// Is makes the error match ErrInsufficientBalance under errors.Is.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Service adjusts account balances on behalf of an operator.
type Service interface {
	// Adjust applies a signed credit adjustment to the account. A positive
	// amount grants credits, a negative amount deducts them, and zero is
	// rejected with ErrInvalidAmount. Deductions exceeding the current
	// balance fail with an *InsufficientBalanceError and leave the ledger
	// unchanged. Returns the balance after the adjustment.
	Adjust(ctx context.Context, accountID uuid.UUID, amount int64, reason string) (int64, error)
}

type serviceImpl struct {
	ledger ledger.Service
	logger *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates an admin adjustment service backed by the given ledger.
func NewService(ledgerService ledger.Service, logger *slog.Logger) Service {
	if ledgerService == nil {
		panic("ledgerService cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &serviceImpl{
		ledger: ledgerService,
		logger: logger.With(slog.String("component", "admin_service")),
	}
}

// Adjust implements the Service interface.
func (s *serviceImpl) Adjust(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	reason string,
) (int64, error) {
	switch {
	case amount == 0:
		return 0, ErrInvalidAmount

	case amount > 0:
		if reason == "" {
			reason = DefaultGrantReason
		}
		newBalance, err := s.ledger.Credit(ctx, accountID, amount, reason, domain.CategoryAdminGrant)
		if err != nil {
			return 0, fmt.Errorf("applying admin grant: %w", err)
		}

		s.logger.InfoContext(ctx, "admin grant applied",
			slog.String("account_id", accountID.String()),
			slog.Int64("amount", amount),
			slog.Int64("new_balance", newBalance))
		return newBalance, nil

	default:
		deduction := -amount
		if reason == "" {
			reason = DefaultDeductionReason
		}

		current, err := s.ledger.GetBalance(ctx, accountID)
		if err != nil {
			return 0, fmt.Errorf("checking balance before deduction: %w", err)
		}
		if current < deduction {
			return 0, &InsufficientBalanceError{
				CurrentBalance: current,
				Requested:      deduction,
			}
		}

		newBalance, err := s.ledger.Debit(ctx, accountID, deduction, reason, domain.CategoryAdminDeduction)
		if err != nil {
			return 0, fmt.Errorf("applying admin deduction: %w", err)
		}

		s.logger.InfoContext(ctx, "admin deduction applied",
			slog.String("account_id", accountID.String()),
			slog.Int64("amount", deduction),
			slog.Int64("new_balance", newBalance))
		return newBalance, nil
	}
}
