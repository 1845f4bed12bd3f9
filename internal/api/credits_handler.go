package api

import (
	"log/slog"
	"net/http"

	"github.com/recall-app/recall-api/internal/api/shared"
	"github.com/recall-app/recall-api/internal/platform/logger"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/service/purchase"
)

// CreditsHandler handles account-facing credit requests: balance, history,
// the package catalog, and purchases.
type CreditsHandler struct {
	ledgerService   ledger.Service
	purchaseService purchase.Service
	logger          *slog.Logger
}

// NewCreditsHandler creates a new CreditsHandler.
func NewCreditsHandler(
	ledgerService ledger.Service,
	purchaseService purchase.Service,
	log *slog.Logger,
) *CreditsHandler {
	if ledgerService == nil {
		panic("ledgerService cannot be nil for CreditsHandler")
	}
	if purchaseService == nil {
		panic("purchaseService cannot be nil for CreditsHandler")
	}
	if log == nil {
		panic("logger cannot be nil for CreditsHandler")
	}
	return &CreditsHandler{
		ledgerService:   ledgerService,
		purchaseService: purchaseService,
		logger:          log.With(slog.String("component", "credits_handler")),
	}
}

// GetBalance handles GET /credits/balance requests.
func (h *CreditsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
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

// GetHistory handles GET /credits/history requests. Pages are 1-indexed and
// newest-first; a page past the end returns an empty record list.
func (h *CreditsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := getPagination(w, r)
	if !ok {
		return
	}

	historyPage, err := h.ledgerService.GetHistory(r.Context(), accountID, pageSize, page)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, historyToResponse(historyPage, page, pageSize))
}

// GetPackages handles GET /credits/packages requests.
func (h *CreditsHandler) GetPackages(w http.ResponseWriter, r *http.Request) {
	catalog := h.purchaseService.Catalog()
	packages := make([]PackageResponse, len(catalog))
	for i, pkg := range catalog {
		packages[i] = PackageResponse{
			ID:         pkg.ID,
			Name:       pkg.Name,
			Credits:    pkg.Credits,
			PriceCents: pkg.PriceCents,
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PackagesResponse{Packages: packages})
}

// PurchasePackage handles POST /credits/purchase requests.
func (h *CreditsHandler) PurchasePackage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	var req PurchaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	newBalance, err := h.purchaseService.Purchase(r.Context(), accountID, req.PackageID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Info("credit package purchased",
		slog.String("account_id", accountID.String()),
		slog.String("package_id", req.PackageID))
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: accountID.String(),
		Balance:   newBalance,
	})
}

func historyToResponse(historyPage *ledger.HistoryPage, page, pageSize int) HistoryResponse {
	records := make([]TransactionResponse, len(historyPage.Records))
	for i, tx := range historyPage.Records {
		records[i] = transactionToResponse(tx)
	}
	return HistoryResponse{
		Records:    records,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: historyPage.TotalCount,
		TotalPages: historyPage.TotalPages,
	}
}
