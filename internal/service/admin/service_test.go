package admin_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/service/admin"
	"github.com/recall-app/recall-api/internal/service/ledger"
)

func newService(t *testing.T) (admin.Service, *ledger.MockService) {
	t.Helper()
	mockLedger := ledger.NewMockService()
	return admin.NewService(mockLedger, slog.Default()), mockLedger
}

func TestAdjustGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("positive amount credits the account", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)
		account := uuid.New()

		newBalance, err := svc.Adjust(ctx, account, 100, "contest prize")
		require.NoError(t, err)
		assert.Equal(t, int64(100), newBalance)

		records := mockLedger.Records()
		require.Len(t, records, 1)
		assert.Equal(t, int64(100), records[0].Amount)
		assert.Equal(t, domain.CategoryAdminGrant, records[0].Category)
		assert.Equal(t, "contest prize", records[0].Description)
	})

	t.Run("empty reason falls back to the default grant description", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)

		_, err := svc.Adjust(ctx, uuid.New(), 10, "")
		require.NoError(t, err)

		records := mockLedger.Records()
		require.Len(t, records, 1)
		assert.Equal(t, admin.DefaultGrantReason, records[0].Description)
	})

	t.Run("ledger failures propagate", func(t *testing.T) {
		t.Parallel()
		mockLedger := ledger.NewMockService()
		mockLedger.CreditError = errors.New("write failed")
		svc := admin.NewService(mockLedger, slog.Default())

		_, err := svc.Adjust(ctx, uuid.New(), 10, "")
		assert.Error(t, err)
	})
}

func TestAdjustDeduction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("negative amount debits the account", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)
		account := uuid.New()
		mockLedger.SetBalance(account, 50)

		newBalance, err := svc.Adjust(ctx, account, -30, "abuse cleanup")
		require.NoError(t, err)
		assert.Equal(t, int64(20), newBalance)

		records := mockLedger.Records()
		require.Len(t, records, 1)
		assert.Equal(t, int64(-30), records[0].Amount)
		assert.Equal(t, domain.CategoryAdminDeduction, records[0].Category)
	})

	t.Run("deduction of the entire balance succeeds", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)
		account := uuid.New()
		mockLedger.SetBalance(account, 50)

		newBalance, err := svc.Adjust(ctx, account, -50, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), newBalance)
	})

	t.Run("overdraw is rejected and nothing is recorded", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)
		account := uuid.New()
		mockLedger.SetBalance(account, 50)

		_, err := svc.Adjust(ctx, account, -100, "")
		require.ErrorIs(t, err, admin.ErrInsufficientBalance)

		var insufficientErr *admin.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, int64(50), insufficientErr.CurrentBalance)
		assert.Equal(t, int64(100), insufficientErr.Requested)

		balance, err := mockLedger.GetBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance, "rejected deduction must not change the balance")
		assert.Empty(t, mockLedger.Records())
	})

	t.Run("empty reason falls back to the default deduction description", func(t *testing.T) {
		t.Parallel()
		svc, mockLedger := newService(t)
		account := uuid.New()
		mockLedger.SetBalance(account, 10)

		_, err := svc.Adjust(ctx, account, -5, "")
		require.NoError(t, err)

		records := mockLedger.Records()
		require.Len(t, records, 1)
		assert.Equal(t, admin.DefaultDeductionReason, records[0].Description)
	})
}

func TestAdjustZeroAmount(t *testing.T) {
	t.Parallel()

	svc, mockLedger := newService(t)
	_, err := svc.Adjust(context.Background(), uuid.New(), 0, "noop")
	assert.ErrorIs(t, err, admin.ErrInvalidAmount)
	assert.Empty(t, mockLedger.Records())
}
