package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/store"
)

// PostgresTransactionStore implements the store.TransactionStore interface
// using a PostgreSQL database as the storage backend. The underlying table
// is append-only: this store exposes no update or delete operations.
type PostgresTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTransactionStore creates a new PostgreSQL implementation of the
// TransactionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresTransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "transaction_store")),
	}
}

// Ensure PostgresTransactionStore implements store.TransactionStore interface
var _ store.TransactionStore = (*PostgresTransactionStore)(nil)

// Append implements store.TransactionStore.Append
func (s *PostgresTransactionStore) Append(ctx context.Context, txn *domain.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO credit_transactions (id, account_id, amount, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Amount,
		txn.Description,
		string(txn.Category),
		txn.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to append transaction",
			slog.String("transaction_id", txn.ID.String()),
			slog.String("account_id", txn.AccountID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("transaction", "append",
			"failed to append ledger record", mapError(err))
	}

	return nil
}

// ListByAccount implements store.TransactionStore.ListByAccount
// Records come back newest-first; the bigserial seq column breaks
// created_at ties in insertion order.
func (s *PostgresTransactionStore) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]domain.Transaction, error) {
	const query = `
		SELECT id, account_id, amount, description, category, created_at
		FROM credit_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	return scanTransactions(rows)
}

// CountByAccount implements store.TransactionStore.CountByAccount
func (s *PostgresTransactionStore) CountByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (int64, error) {
	const query = `SELECT COUNT(*) FROM credit_transactions WHERE account_id = $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, mapError(err)
	}

	return count, nil
}

// List implements store.TransactionStore.List
func (s *PostgresTransactionStore) List(
	ctx context.Context,
	limit, offset int,
) ([]domain.Transaction, error) {
	const query = `
		SELECT id, account_id, amount, description, category, created_at
		FROM credit_transactions
		ORDER BY created_at DESC, seq DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	return scanTransactions(rows)
}

// Count implements store.TransactionStore.Count
func (s *PostgresTransactionStore) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM credit_transactions`

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, mapError(err)
	}

	return count, nil
}

// SumByAccount implements store.TransactionStore.SumByAccount
// An account with no transactions sums to zero rather than NULL.
func (s *PostgresTransactionStore) SumByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_transactions
		WHERE account_id = $1`

	var sum int64
	if err := s.db.QueryRowContext(ctx, query, accountID).Scan(&sum); err != nil {
		return 0, mapError(err)
	}

	return sum, nil
}

// WithTx implements store.TransactionStore.WithTx
// It returns a new store bound to the given transaction.
func (s *PostgresTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &PostgresTransactionStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanTransactions maps query rows onto domain transactions.
func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var txn domain.Transaction
		var category string
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Amount,
			&txn.Description,
			&category,
			&txn.CreatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		txn.Category = domain.TransactionCategory(category)
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return transactions, nil
}
