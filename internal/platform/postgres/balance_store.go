package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/store"
)

// PostgresBalanceStore implements the store.BalanceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBalanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBalanceStore creates a new PostgreSQL implementation of the
// BalanceStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBalanceStore(db store.DBTX, logger *slog.Logger) *PostgresBalanceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBalanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "balance_store")),
	}
}

// Ensure PostgresBalanceStore implements store.BalanceStore interface
var _ store.BalanceStore = (*PostgresBalanceStore)(nil)

// Get implements store.BalanceStore.Get
// Returns store.ErrBalanceNotFound if the account has no balance row.
func (s *PostgresBalanceStore) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*domain.AccountBalance, error) {
	const query = `
		SELECT account_id, balance, updated_at
		FROM account_balances
		WHERE account_id = $1`

	var balance domain.AccountBalance
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&balance.AccountID,
		&balance.Balance,
		&balance.UpdatedAt,
	)
	if err != nil {
		if mapped := mapError(err); store.IsNotFoundError(mapped) {
			return nil, fmt.Errorf("%w: %v", store.ErrBalanceNotFound, err)
		}
		return nil, mapError(err)
	}

	return &balance, nil
}

// ApplyDelta implements store.BalanceStore.ApplyDelta
// The increment runs as a single upsert statement so concurrent operations on
// the same account serialize at the row and no update is lost. The resulting
// balance is returned from the same statement.
func (s *PostgresBalanceStore) ApplyDelta(
	ctx context.Context,
	accountID uuid.UUID,
	delta int64,
) (int64, error) {
	const query = `
		INSERT INTO account_balances (account_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id)
		DO UPDATE SET
			balance = account_balances.balance + EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at
		RETURNING balance`

	var newBalance int64
	err := s.db.QueryRowContext(ctx, query, accountID, delta, time.Now().UTC()).
		Scan(&newBalance)
	if err != nil {
		s.logger.Error("failed to apply balance delta",
			slog.String("account_id", accountID.String()),
			slog.Int64("delta", delta),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("balance", "apply_delta",
			"failed to apply balance delta", mapError(err))
	}

	return newBalance, nil
}

// WithTx implements store.BalanceStore.WithTx
// It returns a new store bound to the given transaction.
func (s *PostgresBalanceStore) WithTx(tx *sql.Tx) store.BalanceStore {
	return &PostgresBalanceStore{
		db:     tx,
		logger: s.logger,
	}
}
