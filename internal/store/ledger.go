package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/recall-app/recall-api/internal/domain"
)

// BalanceStore defines the interface for persisting per-account credit balances.
// Version: 1.0
type BalanceStore interface {
	// Get retrieves the balance row for an account.
	// Returns ErrBalanceNotFound if the account has never had a ledger
	// operation; callers that want "absent means zero" semantics handle
	// that mapping themselves.
	Get(ctx context.Context, accountID uuid.UUID) (*domain.AccountBalance, error)

	// ApplyDelta atomically adds delta (which may be negative) to the
	// account's stored balance and returns the resulting balance. The row is
	// created with an initial balance equal to delta if the account has no
	// balance yet (lazy upsert).
	//
	// IMPORTANT: Implementations must perform the increment in a single
	// statement against the stored value, never as an application-layer
	// read-modify-write, so that concurrent operations on the same account
	// serialize at the database and no update is lost.
	//
	// The ledger service is the only intended caller, and it always invokes
	// ApplyDelta inside store.RunInTransaction together with the matching
	// TransactionStore.Append so the pair commits or rolls back as one unit.
	ApplyDelta(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error)

	// WithTx returns a new BalanceStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically the ledger service via store.RunInTransaction).
	WithTx(tx *sql.Tx) BalanceStore
}

// TransactionStore defines the interface for the append-only credit
// transaction log.
// Version: 1.0
type TransactionStore interface {
	// Append writes one transaction record. Records are immutable once
	// written; there are no update or delete operations on this store.
	//
	// IMPORTANT: When the append accompanies a balance change it MUST run in
	// the same transaction as BalanceStore.ApplyDelta. Use WithTx together
	// with store.RunInTransaction.
	Append(ctx context.Context, txn *domain.Transaction) error

	// ListByAccount retrieves transactions for one account ordered
	// newest-first (created_at descending, insertion order breaking ties),
	// sliced by limit/offset. An offset past the end returns an empty slice,
	// not an error.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)

	// CountByAccount returns the total number of transactions for an account.
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// List retrieves transactions across all accounts, newest-first, sliced
	// by limit/offset. Used by the admin collaborator's system-wide view.
	List(ctx context.Context, limit, offset int) ([]domain.Transaction, error)

	// Count returns the total number of transactions across all accounts.
	Count(ctx context.Context) (int64, error)

	// SumByAccount folds the signed amounts of every transaction for an
	// account. Used to cross-check the cached balance against the log.
	SumByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// WithTx returns a new TransactionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TransactionStore
}
