package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/api/shared"
	"github.com/recall-app/recall-api/internal/platform/logger"
	"github.com/recall-app/recall-api/internal/service/cards"
)

// CardHandler handles card management and review requests.
type CardHandler struct {
	cardService cards.Service
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService cards.Service, log *slog.Logger) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil for CardHandler")
	}
	if log == nil {
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardService: cardService,
		logger:      log.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests. Creating a card costs credits;
// an account that cannot cover the cost gets 402 Payment Required.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id format")
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), accountID, deckID, req.Front, req.Back)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("card created",
		slog.String("account_id", accountID.String()),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{cardID} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), accountID, cardID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ListDeckCards handles GET /cards/deck/{deckID} requests.
func (h *CardHandler) ListDeckCards(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	deckID, ok := getPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	deckCards, err := h.cardService.ListCards(r.Context(), accountID, deckID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	responses := make([]CardResponse, len(deckCards))
	for i := range deckCards {
		responses[i] = cardToResponse(&deckCards[i])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ListDueCards handles GET /cards/due requests.
func (h *CardHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	dueCards, err := h.cardService.ListDueCards(r.Context(), accountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	responses := make([]CardResponse, len(dueCards))
	for i := range dueCards {
		responses[i] = cardToResponse(&dueCards[i])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// SubmitReview handles POST /cards/{cardID}/review requests.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.SubmitReview(r.Context(), accountID, cardID, req.Performance)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("performance", req.Performance))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PostponeCard handles POST /cards/{cardID}/postpone requests.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req PostponeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.PostponeCard(r.Context(), accountID, cardID, req.Days)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{cardID} requests. Credits spent on the
// card are not refunded.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), accountID, cardID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
