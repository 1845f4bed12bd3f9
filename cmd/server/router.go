package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/recall-app/recall-api/internal/api"
	apiMiddleware "github.com/recall-app/recall-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth.JWTSecret)

	creditsHandler := api.NewCreditsHandler(app.ledgerService, app.purchaseService, app.logger)
	adminHandler := api.NewAdminHandler(
		app.adminService, app.ledgerService, app.purchaseService, app.logger)
	deckHandler := api.NewDeckHandler(app.cardService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Credit endpoints
			r.Get("/credits/balance", creditsHandler.GetBalance)
			r.Get("/credits/history", creditsHandler.GetHistory)
			r.Get("/credits/packages", creditsHandler.GetPackages)
			r.Post("/credits/purchase", creditsHandler.PurchasePackage)

			// Deck endpoints
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Put("/decks/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

			// Card endpoints
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/due", cardHandler.ListDueCards)
			r.Get("/cards/deck/{deckID}", cardHandler.ListDeckCards)
			r.Get("/cards/{cardID}", cardHandler.GetCard)
			r.Post("/cards/{cardID}/review", cardHandler.SubmitReview)
			r.Post("/cards/{cardID}/postpone", cardHandler.PostponeCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)
				r.Post("/admin/credits/adjust", adminHandler.AdjustCredits)
				r.Get("/admin/credits/history", adminHandler.GetHistory)
				r.Get("/admin/credits/balance/{accountID}", adminHandler.GetBalance)
				r.Post("/admin/accounts/{accountID}/signup-bonus", adminHandler.GrantSignupBonus)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
