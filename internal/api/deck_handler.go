package api

import (
	"log/slog"
	"net/http"

	"github.com/recall-app/recall-api/internal/api/shared"
	"github.com/recall-app/recall-api/internal/service/cards"
)

// DeckHandler handles deck management requests.
type DeckHandler struct {
	cardService cards.Service
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(cardService cards.Service, log *slog.Logger) *DeckHandler {
	if cardService == nil {
		panic("cardService cannot be nil for DeckHandler")
	}
	if log == nil {
		panic("logger cannot be nil for DeckHandler")
	}
	return &DeckHandler{
		cardService: cardService,
		logger:      log.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.cardService.CreateDeck(r.Context(), accountID, req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// ListDecks handles GET /decks requests.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}

	decks, err := h.cardService.ListDecks(r.Context(), accountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	responses := make([]DeckResponse, len(decks))
	for i := range decks {
		responses[i] = deckToResponse(&decks[i])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetDeck handles GET /decks/{deckID} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	deckID, ok := getPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.cardService.GetDeck(r.Context(), accountID, deckID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// UpdateDeck handles PUT /decks/{deckID} requests.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	deckID, ok := getPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.cardService.UpdateDeck(r.Context(), accountID, deckID, req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{deckID} requests. Cards in the deck are
// removed with it.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(w, r)
	if !ok {
		return
	}
	deckID, ok := getPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.cardService.DeleteDeck(r.Context(), accountID, deckID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
