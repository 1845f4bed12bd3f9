package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/recall-app/recall-api/internal/config"
	"github.com/recall-app/recall-api/internal/domain/sched"
	"github.com/recall-app/recall-api/internal/events"
	"github.com/recall-app/recall-api/internal/platform/logger"
	"github.com/recall-app/recall-api/internal/platform/postgres"
	"github.com/recall-app/recall-api/internal/service/admin"
	"github.com/recall-app/recall-api/internal/service/cards"
	"github.com/recall-app/recall-api/internal/service/ledger"
	"github.com/recall-app/recall-api/internal/service/purchase"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	ledgerService   ledger.Service
	adminService    admin.Service
	cardService     cards.Service
	purchaseService purchase.Service
}

// initializeApp loads configuration, sets up logging, connects to the
// database, applies migrations, and wires the service layer.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := postgres.MigrateUp(ctx, db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	balanceStore := postgres.NewPostgresBalanceStore(db, appLogger)
	transactionStore := postgres.NewPostgresTransactionStore(db, appLogger)
	cardStore := postgres.NewPostgresCardStore(db, appLogger)
	deckStore := postgres.NewPostgresDeckStore(db, appLogger)

	emitter := events.NewInMemoryEmitter(appLogger)
	emitter.RegisterHandler(events.NewAuditLogHandler(appLogger))

	ledgerService := ledger.NewService(db, balanceStore, transactionStore, emitter, appLogger)
	adminService := admin.NewService(ledgerService, appLogger)
	cardService := cards.NewService(
		cardStore,
		deckStore,
		ledgerService,
		sched.NewDefaultService(),
		emitter,
		cfg.Credits.CardCreationCost,
		appLogger,
	)
	purchaseService := purchase.NewService(ledgerService, cfg.Credits.SignupBonus, appLogger)

	return &application{
		config:          cfg,
		logger:          appLogger,
		db:              db,
		ledgerService:   ledgerService,
		adminService:    adminService,
		cardService:     cardService,
		purchaseService: purchaseService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
