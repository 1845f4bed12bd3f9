package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/mocks"
	"github.com/recall-app/recall-api/internal/store"
)

// newTestService wires the service to mock stores with a transaction runner
// that emulates rollback: if the transactional function fails, balance state
// is restored to its snapshot, mirroring what the database would do.
func newTestService(
	balances *mocks.MockBalanceStore,
	transactions *mocks.MockTransactionStore,
) Service {
	return &serviceImpl{
		balanceStore:     balances,
		transactionStore: transactions,
		logger:           slog.Default(),
		runTx: func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
			snapshot := balances.SnapshotBalances()
			if err := fn(ctx, nil); err != nil {
				balances.RestoreBalances(snapshot)
				return err
			}
			return nil
		},
	}
}

func TestGetBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("untouched account reads as zero", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(mocks.NewMockBalanceStore(), mocks.NewMockTransactionStore())

		balance, err := svc.GetBalance(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("existing account reads its balance", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		account := uuid.New()
		balances.SetBalance(account, 50)
		svc := newTestService(balances, mocks.NewMockTransactionStore())

		balance, err := svc.GetBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("store failures propagate", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		balances.GetError = errors.New("connection reset")
		svc := newTestService(balances, mocks.NewMockTransactionStore())

		_, err := svc.GetBalance(ctx, uuid.New())
		assert.Error(t, err)
	})
}

func TestHasSufficientBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("new account cannot cover one credit", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(mocks.NewMockBalanceStore(), mocks.NewMockTransactionStore())

		ok, err := svc.HasSufficientBalance(ctx, uuid.New(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("balance exactly equal to amount is sufficient", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		account := uuid.New()
		balances.SetBalance(account, 20)
		svc := newTestService(balances, mocks.NewMockTransactionStore())

		ok, err := svc.HasSufficientBalance(ctx, account, 20)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(mocks.NewMockBalanceStore(), mocks.NewMockTransactionStore())

		_, err := svc.HasSufficientBalance(ctx, uuid.New(), -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestDebit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debit decrements and logs one negative record", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		transactions := mocks.NewMockTransactionStore()
		account := uuid.New()
		balances.SetBalance(account, 50)
		svc := newTestService(balances, transactions)

		newBalance, err := svc.Debit(ctx, account, 20, "x", domain.CategoryCardCreation)
		require.NoError(t, err)
		assert.Equal(t, int64(30), newBalance)

		page, err := svc.GetHistory(ctx, account, 10, 1)
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, int64(-20), page.Records[0].Amount)
		assert.Equal(t, domain.CategoryCardCreation, page.Records[0].Category)
		assert.Equal(t, "x", page.Records[0].Description)
	})

	t.Run("debit below zero is permitted at this layer", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		account := uuid.New()
		balances.SetBalance(account, 5)
		svc := newTestService(balances, mocks.NewMockTransactionStore())

		// Sufficiency policy belongs to callers; the primitive will go negative.
		newBalance, err := svc.Debit(ctx, account, 10, "overdraw", domain.CategoryAdminDeduction)
		require.NoError(t, err)
		assert.Equal(t, int64(-5), newBalance)
	})

	t.Run("zero and negative magnitudes are rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(mocks.NewMockBalanceStore(), mocks.NewMockTransactionStore())

		_, err := svc.Debit(ctx, uuid.New(), 0, "x", domain.CategoryPurchase)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = svc.Debit(ctx, uuid.New(), -3, "x", domain.CategoryPurchase)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown category is rejected before any write", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		account := uuid.New()
		balances.SetBalance(account, 50)
		svc := newTestService(balances, mocks.NewMockTransactionStore())

		_, err := svc.Debit(ctx, account, 10, "x", domain.TransactionCategory("GIFT"))
		assert.ErrorIs(t, err, domain.ErrInvalidTransactionCategory)

		balance, err := svc.GetBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("failed append rolls back the balance change", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		transactions := mocks.NewMockTransactionStore()
		transactions.AppendError = errors.New("disk full")
		account := uuid.New()
		balances.SetBalance(account, 50)
		svc := newTestService(balances, transactions)

		_, err := svc.Debit(ctx, account, 20, "x", domain.CategoryCardCreation)
		assert.ErrorIs(t, err, ErrLedgerWriteFailed)

		balance, err := svc.GetBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance, "failed debit must leave the balance untouched")

		count, err := transactions.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "no orphan record may survive the rollback")
	})
}

func TestCredit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("credit lazily creates the account", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		transactions := mocks.NewMockTransactionStore()
		account := uuid.New()
		svc := newTestService(balances, transactions)

		newBalance, err := svc.Credit(ctx, account, 100, "Purchased Starter Pack", domain.CategoryPurchase)
		require.NoError(t, err)
		assert.Equal(t, int64(100), newBalance)

		page, err := svc.GetHistory(ctx, account, 10, 1)
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, int64(100), page.Records[0].Amount)
		assert.Equal(t, domain.CategoryPurchase, page.Records[0].Category)
	})

	t.Run("each successful operation appends exactly one record", func(t *testing.T) {
		t.Parallel()
		balances := mocks.NewMockBalanceStore()
		transactions := mocks.NewMockTransactionStore()
		account := uuid.New()
		svc := newTestService(balances, transactions)

		_, err := svc.Credit(ctx, account, 10, "a", domain.CategorySignupBonus)
		require.NoError(t, err)
		_, err = svc.Debit(ctx, account, 4, "b", domain.CategoryCardCreation)
		require.NoError(t, err)
		_, err = svc.Credit(ctx, account, 7, "c", domain.CategoryRefund)
		require.NoError(t, err)

		count, err := transactions.CountByAccount(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestBalanceMatchesHistoryFold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := mocks.NewMockBalanceStore()
	transactions := mocks.NewMockTransactionStore()
	account := uuid.New()
	svc := newTestService(balances, transactions)

	_, err := svc.Credit(ctx, account, 100, "purchase", domain.CategoryPurchase)
	require.NoError(t, err)
	_, err = svc.Debit(ctx, account, 1, "card", domain.CategoryCardCreation)
	require.NoError(t, err)
	_, err = svc.Debit(ctx, account, 30, "admin", domain.CategoryAdminDeduction)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, account, 5, "refund", domain.CategoryRefund)
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, account)
	require.NoError(t, err)

	// Fold the full unpaginated history and compare with the cached aggregate.
	page, err := svc.GetHistory(ctx, account, 100, 1)
	require.NoError(t, err)
	var folded int64
	for _, record := range page.Records {
		folded += record.Amount
	}
	assert.Equal(t, balance, folded)
}

func TestConcurrentOperationsDoNotLoseUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := mocks.NewMockBalanceStore()
	transactions := mocks.NewMockTransactionStore()
	account := uuid.New()
	balances.SetBalance(account, 1000)
	svc := newTestService(balances, transactions)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_, err := svc.Credit(ctx, account, 10, "credit", domain.CategoryPurchase)
				assert.NoError(t, err)
			} else {
				_, err := svc.Debit(ctx, account, 10, "debit", domain.CategoryCardCreation)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// Ten credits of 10 and ten debits of 10 cancel out exactly.
	balance, err := svc.GetBalance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	count, err := transactions.CountByAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), count)
}

func TestGetHistoryPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := mocks.NewMockBalanceStore()
	transactions := mocks.NewMockTransactionStore()
	account := uuid.New()
	svc := newTestService(balances, transactions)

	for i := 0; i < 5; i++ {
		_, err := svc.Credit(ctx, account, int64(i+1), "grant", domain.CategoryAdminGrant)
		require.NoError(t, err)
	}

	t.Run("first page is newest-first", func(t *testing.T) {
		page, err := svc.GetHistory(ctx, account, 2, 1)
		require.NoError(t, err)
		require.Len(t, page.Records, 2)
		assert.Equal(t, int64(5), page.Records[0].Amount)
		assert.Equal(t, int64(4), page.Records[1].Amount)
		assert.Equal(t, int64(5), page.TotalCount)
		assert.Equal(t, int64(3), page.TotalPages)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := svc.GetHistory(ctx, account, 2, 3)
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, int64(1), page.Records[0].Amount)
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		page, err := svc.GetHistory(ctx, account, 2, 9)
		require.NoError(t, err)
		assert.Empty(t, page.Records)
		assert.Equal(t, int64(5), page.TotalCount)
	})

	t.Run("non-positive page parameters are rejected", func(t *testing.T) {
		_, err := svc.GetHistory(ctx, account, 0, 1)
		assert.ErrorIs(t, err, ErrInvalidPage)

		_, err = svc.GetHistory(ctx, account, 10, 0)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})
}

func TestGetSystemHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := mocks.NewMockBalanceStore()
	transactions := mocks.NewMockTransactionStore()
	svc := newTestService(balances, transactions)

	first := uuid.New()
	second := uuid.New()
	_, err := svc.Credit(ctx, first, 10, "a", domain.CategoryPurchase)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, second, 20, "b", domain.CategoryPurchase)
	require.NoError(t, err)

	page, err := svc.GetSystemHistory(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, int64(20), page.Records[0].Amount, "system view is newest-first too")
}
