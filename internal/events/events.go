package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the application's core services.
const (
	// TypeLedgerEntryRecorded fires after a debit or credit commits, once
	// the balance change and its log record are durably stored.
	TypeLedgerEntryRecorded = "ledger.entry_recorded"

	// TypeCardReviewed fires after a review submission persists the new
	// schedule for a card.
	TypeCardReviewed = "card.reviewed"
)

// Event is an in-process notification about something that has already
// happened. Events are emitted after the corresponding state committed;
// handlers can assume the described change is durable.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type identifies the kind of event (see the Type* constants)
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// LedgerEntryRecorded is the payload for TypeLedgerEntryRecorded.
type LedgerEntryRecorded struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Amount        int64     `json:"amount"`
	Category      string    `json:"category"`
	NewBalance    int64     `json:"new_balance"`
}

// CardReviewed is the payload for TypeCardReviewed.
type CardReviewed struct {
	CardID       uuid.UUID `json:"card_id"`
	AccountID    uuid.UUID `json:"account_id"`
	Performance  int       `json:"performance"`
	Difficulty   float64   `json:"difficulty"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// Handler defines an interface for components that can handle events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
