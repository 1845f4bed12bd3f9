package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/api/shared"
	"github.com/recall-app/recall-api/internal/platform/logger"
	"github.com/recall-app/recall-api/internal/service/admin"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/service/purchase"
)

// AdminHandler handles operator requests: credit adjustments, ledger
// inspection, and account-lifecycle grants. Routes using it must sit behind
// the admin claim check.
type AdminHandler struct {
	adminService    admin.Service
	ledgerService   ledger.Service
	purchaseService purchase.Service
	logger          *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	adminService admin.Service,
	ledgerService ledger.Service,
	purchaseService purchase.Service,
	log *slog.Logger,
) *AdminHandler {
	if adminService == nil {
		panic("adminService cannot be nil for AdminHandler")
	}
	if ledgerService == nil {
		panic("ledgerService cannot be nil for AdminHandler")
	}
	if purchaseService == nil {
		panic("purchaseService cannot be nil for AdminHandler")
	}
	if log == nil {
		panic("logger cannot be nil for AdminHandler")
	}
	return &AdminHandler{
		adminService:    adminService,
		ledgerService:   ledgerService,
		purchaseService: purchaseService,
		logger:          log.With(slog.String("component", "admin_handler")),
	}
}

// AdjustCredits handles POST /admin/credits/adjust requests. A positive
// amount grants credits, a negative amount deducts them.
func (h *AdminHandler) AdjustCredits(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	operatorID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	var req AdjustCreditsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	targetID, err := uuid.Parse(req.AccountID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid account_id format")
		return
	}

	newBalance, err := h.adminService.Adjust(r.Context(), targetID, req.Amount, req.Reason)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Info("admin credit adjustment",
		slog.String("operator_id", operatorID.String()),
		slog.String("account_id", targetID.String()),
		slog.Int64("amount", req.Amount))
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: targetID.String(),
		Balance:   newBalance,
	})
}

// GetHistory handles GET /admin/credits/history requests. With an account_id
// query parameter it returns that account's history; without one it returns
// the system-wide ledger.
func (h *AdminHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := getAccountIDFromContext(w, r); !ok {
		return
	}
	page, pageSize, ok := getPagination(w, r)
	if !ok {
		return
	}

	var (
		historyPage *ledger.HistoryPage
		err         error
	)
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		accountID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid account_id format")
			return
		}
		historyPage, err = h.ledgerService.GetHistory(r.Context(), accountID, pageSize, page)
	} else {
		historyPage, err = h.ledgerService.GetSystemHistory(r.Context(), pageSize, page)
	}
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, historyToResponse(historyPage, page, pageSize))
}

// GrantSignupBonus handles POST /admin/accounts/{accountID}/signup-bonus
// requests. The external auth service owns signup, so it calls this endpoint
// once per new account to seed the welcome credits; repeat-call protection is
// the caller's responsibility.
func (h *AdminHandler) GrantSignupBonus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	operatorID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	accountID, ok := getPathUUID(w, r, "accountID")
	if !ok {
		return
	}

	newBalance, err := h.purchaseService.GrantSignupBonus(r.Context(), accountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Info("signup bonus granted",
		slog.String("operator_id", operatorID.String()),
		slog.String("account_id", accountID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: accountID.String(),
		Balance:   newBalance,
	})
}

// GetBalance handles GET /admin/credits/balance/{accountID} requests.
func (h *AdminHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if _, ok := getAccountIDFromContext(w, r); !ok {
		return
	}
	accountID, ok := getPathUUID(w, r, "accountID")
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetBalance(r.Context(), accountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: accountID.String(),
		Balance:   balance,
	})
}
