package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-app/recall-api/internal/api"
	"github.com/recall-app/recall-api/internal/domain"
	"github.com/recall-app/recall-api/internal/service/admin"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/service/purchase"
	"github.com/recall-app/recall-api/internal/testutils"
)

const testSignupBonus = 10

func newAdminHandler(mockLedger *ledger.MockService) *api.AdminHandler {
	adminService := admin.NewService(mockLedger, testutils.NewTestLogger())
	purchaseService := purchase.NewService(mockLedger, testSignupBonus, testutils.NewTestLogger())
	return api.NewAdminHandler(adminService, mockLedger, purchaseService, testutils.NewTestLogger())
}

func TestAdjustCreditsEndpoint(t *testing.T) {
	t.Parallel()
	operator := uuid.New()

	t.Run("grant", func(t *testing.T) {
		t.Parallel()
		mockLedger := ledger.NewMockService()
		handler := newAdminHandler(mockLedger)
		target := uuid.New()

		body := fmt.Sprintf(`{"account_id":%q,"amount":100,"reason":"promo"}`, target)
		w := httptest.NewRecorder()
		handler.AdjustCredits(w, authedRequest(
			http.MethodPost, "/api/admin/credits/adjust", body, operator))

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.BalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(100), resp.Balance)
		assert.Equal(t, target.String(), resp.AccountID)
	})

	t.Run("deduction beyond the balance yields 402 with the current balance", func(t *testing.T) {
		t.Parallel()
		mockLedger := ledger.NewMockService()
		handler := newAdminHandler(mockLedger)
		target := uuid.New()
		mockLedger.SetBalance(target, 50)

		body := fmt.Sprintf(`{"account_id":%q,"amount":-100}`, target)
		w := httptest.NewRecorder()
		handler.AdjustCredits(w, authedRequest(
			http.MethodPost, "/api/admin/credits/adjust", body, operator))

		require.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Contains(t, w.Body.String(), "50")
		assert.Empty(t, mockLedger.Records(), "failed deduction must not touch the ledger")
	})

	t.Run("zero amount yields 400", func(t *testing.T) {
		t.Parallel()
		handler := newAdminHandler(ledger.NewMockService())

		body := fmt.Sprintf(`{"account_id":%q,"amount":0}`, uuid.New())
		w := httptest.NewRecorder()
		handler.AdjustCredits(w, authedRequest(
			http.MethodPost, "/api/admin/credits/adjust", body, operator))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed account_id yields 400", func(t *testing.T) {
		t.Parallel()
		handler := newAdminHandler(ledger.NewMockService())

		w := httptest.NewRecorder()
		handler.AdjustCredits(w, authedRequest(
			http.MethodPost, "/api/admin/credits/adjust",
			`{"account_id":"not-a-uuid","amount":10}`, operator))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHistoryEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	operator := uuid.New()

	mockLedger := ledger.NewMockService()
	first := uuid.New()
	second := uuid.New()
	_, err := mockLedger.Credit(ctx, first, 10, "a", domain.CategoryPurchase)
	require.NoError(t, err)
	_, err = mockLedger.Credit(ctx, second, 20, "b", domain.CategoryPurchase)
	require.NoError(t, err)
	handler := newAdminHandler(mockLedger)

	t.Run("system-wide without account_id", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.GetHistory(w, authedRequest(
			http.MethodGet, "/api/admin/credits/history", "", operator))

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Records, 2)
	})

	t.Run("scoped to one account", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.GetHistory(w, authedRequest(
			http.MethodGet, "/api/admin/credits/history?account_id="+first.String(), "", operator))

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Records, 1)
		assert.Equal(t, first.String(), resp.Records[0].AccountID)
	})

	t.Run("malformed account_id yields 400", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		handler.GetHistory(w, authedRequest(
			http.MethodGet, "/api/admin/credits/history?account_id=nope", "", operator))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGrantSignupBonusEndpoint(t *testing.T) {
	t.Parallel()
	operator := uuid.New()

	newRouter := func(handler *api.AdminHandler) *chi.Mux {
		r := chi.NewRouter()
		r.Post("/api/admin/accounts/{accountID}/signup-bonus", handler.GrantSignupBonus)
		return r
	}

	t.Run("seeds the welcome credits", func(t *testing.T) {
		t.Parallel()
		mockLedger := ledger.NewMockService()
		router := newRouter(newAdminHandler(mockLedger))
		target := uuid.New()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodPost,
			"/api/admin/accounts/"+target.String()+"/signup-bonus", "", operator))

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.BalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(testSignupBonus), resp.Balance)
		assert.Equal(t, target.String(), resp.AccountID)

		records := mockLedger.Records()
		require.Len(t, records, 1)
		assert.Equal(t, int64(testSignupBonus), records[0].Amount)
		assert.Equal(t, domain.CategorySignupBonus, records[0].Category)
	})

	t.Run("malformed account ID yields 400", func(t *testing.T) {
		t.Parallel()
		router := newRouter(newAdminHandler(ledger.NewMockService()))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodPost,
			"/api/admin/accounts/nope/signup-bonus", "", operator))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
