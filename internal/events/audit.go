package events

import (
	"context"
	"fmt"
	"log/slog"
)

// AuditLogHandler turns emitted events into structured audit log lines. It is
// registered on the emitter at startup so every committed ledger entry and
// review leaves an operator-readable trail alongside the transactional tables.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates a handler that writes audit lines to the given
// logger. If logger is nil, a default logger will be used.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuditLogHandler{
		logger: logger.With(slog.String("component", "audit_log")),
	}
}

// Ensure AuditLogHandler implements the Handler interface
var _ Handler = (*AuditLogHandler)(nil)

// HandleEvent writes one audit line per event. Unknown event types are
// logged at debug level and are not an error; the emitter may grow new
// event types before this handler learns about them.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *Event) error {
	switch event.Type {
	case TypeLedgerEntryRecorded:
		var payload LedgerEntryRecorded
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("decoding ledger entry payload: %w", err)
		}
		h.logger.InfoContext(ctx, "ledger entry recorded",
			slog.String("event_id", event.ID.String()),
			slog.String("transaction_id", payload.TransactionID.String()),
			slog.String("account_id", payload.AccountID.String()),
			slog.Int64("amount", payload.Amount),
			slog.String("category", payload.Category),
			slog.Int64("new_balance", payload.NewBalance))

	case TypeCardReviewed:
		var payload CardReviewed
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("decoding card review payload: %w", err)
		}
		h.logger.InfoContext(ctx, "card reviewed",
			slog.String("event_id", event.ID.String()),
			slog.String("card_id", payload.CardID.String()),
			slog.String("account_id", payload.AccountID.String()),
			slog.Int("performance", payload.Performance),
			slog.Float64("difficulty", payload.Difficulty),
			slog.Time("next_review_at", payload.NextReviewAt))

	default:
		h.logger.DebugContext(ctx, "skipping unknown event type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
	}

	return nil
}
