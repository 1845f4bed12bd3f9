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
	"github.com/recall-app/recall-api/internal/domain/sched"
	"github.com/recall-app/recall-api/internal/mocks"
	"github.com/recall-app/recall-api/internal/service/cards"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/testutils"
)

type cardFixture struct {
	router *chi.Mux
	ledger *ledger.MockService
	cards  cards.Service
}

// newCardFixture mounts the card and deck handlers on a chi router so path
// parameters resolve the same way they do in production.
func newCardFixture() *cardFixture {
	mockLedger := ledger.NewMockService()
	cardService := cards.NewService(
		mocks.NewMockCardStore(),
		mocks.NewMockDeckStore(),
		mockLedger,
		sched.NewDefaultService(),
		nil,
		1,
		testutils.NewTestLogger(),
	)

	cardHandler := api.NewCardHandler(cardService, testutils.NewTestLogger())
	deckHandler := api.NewDeckHandler(cardService, testutils.NewTestLogger())

	router := chi.NewRouter()
	router.Post("/decks", deckHandler.CreateDeck)
	router.Get("/decks", deckHandler.ListDecks)
	router.Get("/decks/{deckID}", deckHandler.GetDeck)
	router.Put("/decks/{deckID}", deckHandler.UpdateDeck)
	router.Delete("/decks/{deckID}", deckHandler.DeleteDeck)
	router.Post("/cards", cardHandler.CreateCard)
	router.Get("/cards/due", cardHandler.ListDueCards)
	router.Get("/cards/deck/{deckID}", cardHandler.ListDeckCards)
	router.Get("/cards/{cardID}", cardHandler.GetCard)
	router.Post("/cards/{cardID}/review", cardHandler.SubmitReview)
	router.Post("/cards/{cardID}/postpone", cardHandler.PostponeCard)
	router.Delete("/cards/{cardID}", cardHandler.DeleteCard)

	return &cardFixture{router: router, ledger: mockLedger, cards: cardService}
}

func (f *cardFixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func (f *cardFixture) createDeck(t *testing.T, account uuid.UUID) api.DeckResponse {
	t.Helper()
	w := f.do(authedRequest(http.MethodPost, "/decks", `{"name":"Spanish"}`, account))
	require.Equal(t, http.StatusCreated, w.Code)
	var deck api.DeckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deck))
	return deck
}

func (f *cardFixture) createCard(t *testing.T, account uuid.UUID, deckID string) api.CardResponse {
	t.Helper()
	body := fmt.Sprintf(`{"deck_id":%q,"front":"hola","back":"hello"}`, deckID)
	w := f.do(authedRequest(http.MethodPost, "/cards", body, account))
	require.Equal(t, http.StatusCreated, w.Code)
	var card api.CardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	return card
}

func TestCreateCardEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates a card and spends a credit", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		f.ledger.SetBalance(account, 3)
		deck := f.createDeck(t, account)

		card := f.createCard(t, account, deck.ID)
		assert.Equal(t, "hola", card.Front)
		assert.InDelta(t, 3.0, card.Difficulty, 1e-9)

		balance, err := f.ledger.GetBalance(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, int64(2), balance)
	})

	t.Run("empty balance yields 402", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		deck := f.createDeck(t, account)

		body := fmt.Sprintf(`{"deck_id":%q,"front":"hola","back":"hello"}`, deck.ID)
		w := f.do(authedRequest(http.MethodPost, "/cards", body, account))
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("missing front yields 400", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		f.ledger.SetBalance(account, 3)
		deck := f.createDeck(t, account)

		body := fmt.Sprintf(`{"deck_id":%q,"back":"hello"}`, deck.ID)
		w := f.do(authedRequest(http.MethodPost, "/cards", body, account))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown deck yields 404", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		f.ledger.SetBalance(account, 3)

		body := fmt.Sprintf(`{"deck_id":%q,"front":"hola","back":"hello"}`, uuid.New())
		w := f.do(authedRequest(http.MethodPost, "/cards", body, account))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSubmitReviewEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("records the review and returns the new schedule", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		f.ledger.SetBalance(account, 3)
		deck := f.createDeck(t, account)
		card := f.createCard(t, account, deck.ID)

		w := f.do(authedRequest(
			http.MethodPost, "/cards/"+card.ID+"/review", `{"performance":5}`, account))

		require.Equal(t, http.StatusOK, w.Code)
		var reviewed api.CardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviewed))
		assert.InDelta(t, 1.0, reviewed.Difficulty, 1e-9)
		require.Len(t, reviewed.ReviewHistory, 1)
		assert.Equal(t, 5, reviewed.ReviewHistory[0].Performance)
	})

	t.Run("out-of-range performance yields 400", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		f.ledger.SetBalance(account, 3)
		deck := f.createDeck(t, account)
		card := f.createCard(t, account, deck.ID)

		w := f.do(authedRequest(
			http.MethodPost, "/cards/"+card.ID+"/review", `{"performance":6}`, account))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("someone else's card yields 403", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		owner := uuid.New()
		f.ledger.SetBalance(owner, 3)
		deck := f.createDeck(t, owner)
		card := f.createCard(t, owner, deck.ID)

		w := f.do(authedRequest(
			http.MethodPost, "/cards/"+card.ID+"/review", `{"performance":3}`, uuid.New()))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown card yields 404", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()

		w := f.do(authedRequest(
			http.MethodPost, "/cards/"+uuid.NewString()+"/review", `{"performance":3}`, uuid.New()))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostponeEndpoint(t *testing.T) {
	t.Parallel()

	f := newCardFixture()
	account := uuid.New()
	f.ledger.SetBalance(account, 3)
	deck := f.createDeck(t, account)
	card := f.createCard(t, account, deck.ID)

	w := f.do(authedRequest(
		http.MethodPost, "/cards/"+card.ID+"/postpone", `{"days":3}`, account))
	require.Equal(t, http.StatusOK, w.Code)

	var postponed api.CardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &postponed))
	assert.Equal(t, card.NextReviewAt.AddDate(0, 0, 3), postponed.NextReviewAt)

	w = f.do(authedRequest(
		http.MethodPost, "/cards/"+card.ID+"/postpone", `{"days":0}`, account))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeckEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("lifecycle", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		deck := f.createDeck(t, account)

		w := f.do(authedRequest(http.MethodGet, "/decks", "", account))
		require.Equal(t, http.StatusOK, w.Code)
		var decks []api.DeckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decks))
		assert.Len(t, decks, 1)

		w = f.do(authedRequest(
			http.MethodPut, "/decks/"+deck.ID, `{"name":"Castilian"}`, account))
		require.Equal(t, http.StatusOK, w.Code)

		w = f.do(authedRequest(http.MethodDelete, "/decks/"+deck.ID, "", account))
		require.Equal(t, http.StatusNoContent, w.Code)

		w = f.do(authedRequest(http.MethodGet, "/decks/"+deck.ID, "", account))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed deck ID yields 400", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()

		w := f.do(authedRequest(http.MethodGet, "/decks/not-a-uuid", "", uuid.New()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("whitespace-only name on update yields 400", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		account := uuid.New()
		deck := f.createDeck(t, account)

		// "   " survives the required tag but fails entity validation.
		w := f.do(authedRequest(
			http.MethodPut, "/decks/"+deck.ID, `{"name":"   "}`, account))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = f.do(authedRequest(http.MethodGet, "/decks/"+deck.ID, "", account))
		require.Equal(t, http.StatusOK, w.Code)
		var got api.DeckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEqual(t, "   ", got.Name, "rejected rename must not persist")
	})
}

func TestListDueCardsEndpoint(t *testing.T) {
	t.Parallel()

	f := newCardFixture()
	account := uuid.New()
	f.ledger.SetBalance(account, 3)
	deck := f.createDeck(t, account)
	f.createCard(t, account, deck.ID)

	// A freshly created card is due immediately.
	w := f.do(authedRequest(http.MethodGet, "/cards/due", "", account))
	require.Equal(t, http.StatusOK, w.Code)
	var due []api.CardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &due))
	assert.Len(t, due, 1)
}
