package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/events"
	"github.com/recall-app/recall-api/internal/platform/logger"
	"github.com/recall-app/recall-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db               *sql.DB
	balanceStore     store.BalanceStore
	transactionStore store.TransactionStore
	emitter          events.Emitter
	logger           *slog.Logger

	// runTx is the transactional boundary, store.RunInTransaction in
	// production. Unit tests replace it to exercise the service against
	// mock stores without a live database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewService creates a new ledger Service implementation.
// The emitter may be nil when no component listens for ledger events.
func NewService(
	db *sql.DB,
	balanceStore store.BalanceStore,
	transactionStore store.TransactionStore,
	emitter events.Emitter,
	log *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if balanceStore == nil {
		panic("balanceStore cannot be nil")
	}
	if transactionStore == nil {
		panic("transactionStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		db:               db,
		balanceStore:     balanceStore,
		transactionStore: transactionStore,
		emitter:          emitter,
		logger:           log.With(slog.String("component", "ledger_service")),
		runTx:            store.RunInTransaction,
	}
}

// GetBalance implements Service.GetBalance.
func (s *serviceImpl) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	balance, err := s.balanceStore.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrBalanceNotFound) {
			// Lazily-created accounts simply have no row yet.
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance.Balance, nil
}

// HasSufficientBalance implements Service.HasSufficientBalance.
func (s *serviceImpl) HasSufficientBalance(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("%w: sufficiency amount must be non-negative, got %d",
			ErrInvalidAmount, amount)
	}

	balance, err := s.GetBalance(ctx, accountID)
	if err != nil {
		return false, err
	}

	return balance >= amount, nil
}

// Debit implements Service.Debit.
func (s *serviceImpl) Debit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	description string,
	category domain.TransactionCategory,
) (int64, error) {
	return s.apply(ctx, accountID, amount, -1, description, category)
}

// Credit implements Service.Credit.
func (s *serviceImpl) Credit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	description string,
	category domain.TransactionCategory,
) (int64, error) {
	return s.apply(ctx, accountID, amount, +1, description, category)
}

// apply performs one atomic ledger operation: the signed balance delta and
// the matching log record commit together or not at all.
func (s *serviceImpl) apply(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	sign int64,
	description string,
	category domain.TransactionCategory,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be a positive magnitude, got %d",
			ErrInvalidAmount, amount)
	}
	if err := category.Validate(); err != nil {
		return 0, err
	}

	delta := sign * amount

	txn, err := domain.NewTransaction(accountID, delta, description, category)
	if err != nil {
		return 0, err
	}

	var newBalance int64
	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		balances := s.balanceStore.WithTx(tx)
		transactions := s.transactionStore.WithTx(tx)

		var applyErr error
		newBalance, applyErr = balances.ApplyDelta(ctx, accountID, delta)
		if applyErr != nil {
			return applyErr
		}

		return transactions.Append(ctx, txn)
	})
	if err != nil {
		log.Error("ledger operation rolled back",
			slog.String("account_id", accountID.String()),
			slog.Int64("delta", delta),
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	log.Debug("ledger operation committed",
		slog.String("account_id", accountID.String()),
		slog.String("transaction_id", txn.ID.String()),
		slog.Int64("delta", delta),
		slog.Int64("new_balance", newBalance),
		slog.String("category", string(category)))

	s.emitEntryRecorded(ctx, txn, newBalance)

	return newBalance, nil
}

// emitEntryRecorded publishes the post-commit ledger event. Emission problems
// are logged but never fail the already-committed operation.
func (s *serviceImpl) emitEntryRecorded(
	ctx context.Context,
	txn *domain.Transaction,
	newBalance int64,
) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.TypeLedgerEntryRecorded, events.LedgerEntryRecorded{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Amount:        txn.Amount,
		Category:      string(txn.Category),
		NewBalance:    newBalance,
	})
	if err != nil {
		s.logger.Error("failed to build ledger event", slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit ledger event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

// GetHistory implements Service.GetHistory.
func (s *serviceImpl) GetHistory(
	ctx context.Context,
	accountID uuid.UUID,
	pageSize, pageNumber int,
) (*HistoryPage, error) {
	if err := validatePage(pageSize, pageNumber); err != nil {
		return nil, err
	}

	total, err := s.transactionStore.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (pageNumber - 1) * pageSize
	records, err := s.transactionStore.ListByAccount(ctx, accountID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return buildHistoryPage(records, total, pageSize), nil
}

// GetSystemHistory implements Service.GetSystemHistory.
func (s *serviceImpl) GetSystemHistory(
	ctx context.Context,
	pageSize, pageNumber int,
) (*HistoryPage, error) {
	if err := validatePage(pageSize, pageNumber); err != nil {
		return nil, err
	}

	total, err := s.transactionStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (pageNumber - 1) * pageSize
	records, err := s.transactionStore.List(ctx, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return buildHistoryPage(records, total, pageSize), nil
}

func validatePage(pageSize, pageNumber int) error {
	if pageSize < 1 || pageNumber < 1 {
		return fmt.Errorf("%w: page size and page number must be positive (got %d, %d)",
			ErrInvalidPage, pageSize, pageNumber)
	}
	return nil
}

func buildHistoryPage(records []domain.Transaction, total int64, pageSize int) *HistoryPage {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &HistoryPage{
		Records:    records,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
