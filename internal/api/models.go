package api

import (
	"time"

	"github.com/recall-app/recall-api/internal/domain"
)

// BalanceResponse carries an account's current credit balance.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// TransactionResponse is one ledger record as returned to clients.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryResponse is one page of ledger records, newest first.
type HistoryResponse struct {
	Records    []TransactionResponse `json:"records"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalCount int64                 `json:"total_count"`
	TotalPages int64                 `json:"total_pages"`
}

// PackageResponse is one purchasable credit package.
type PackageResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Credits    int64  `json:"credits"`
	PriceCents int64  `json:"price_cents"`
}

// PackagesResponse lists the purchasable credit packages.
type PackagesResponse struct {
	Packages []PackageResponse `json:"packages"`
}

// PurchaseRequest asks to buy a credit package.
type PurchaseRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

// AdjustCreditsRequest is an admin-initiated signed balance adjustment.
type AdjustCreditsRequest struct {
	AccountID string `json:"account_id" validate:"required,uuid"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason" validate:"max=500"`
}

// CreateDeckRequest creates a new deck.
type CreateDeckRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateDeckRequest renames a deck or changes its description.
type UpdateDeckRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// DeckResponse is one deck as returned to clients.
type DeckResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCardRequest creates a new card in a deck.
type CreateCardRequest struct {
	DeckID string `json:"deck_id" validate:"required,uuid"`
	Front  string `json:"front" validate:"required,max=2000"`
	Back   string `json:"back" validate:"required,max=2000"`
}

// ReviewRequest submits a review outcome for a card.
type ReviewRequest struct {
	Performance int `json:"performance" validate:"required,min=1,max=5"`
}

// PostponeRequest pushes a card's next review date forward.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// ReviewSampleResponse is one historical review of a card.
type ReviewSampleResponse struct {
	ReviewedAt  time.Time `json:"reviewed_at"`
	Performance int       `json:"performance"`
}

// CardResponse is one card as returned to clients.
type CardResponse struct {
	ID            string                 `json:"id"`
	DeckID        string                 `json:"deck_id"`
	Front         string                 `json:"front"`
	Back          string                 `json:"back"`
	Difficulty    float64                `json:"difficulty"`
	NextReviewAt  time.Time              `json:"next_review_at"`
	ReviewHistory []ReviewSampleResponse `json:"review_history"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func transactionToResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    string(tx.Category),
		CreatedAt:   tx.CreatedAt,
	}
}

func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID.String(),
		Name:        deck.Name,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

func cardToResponse(card *domain.Card) CardResponse {
	history := make([]ReviewSampleResponse, len(card.ReviewHistory))
	for i, sample := range card.ReviewHistory {
		history[i] = ReviewSampleResponse{
			ReviewedAt:  sample.ReviewedAt,
			Performance: sample.Performance,
		}
	}
	return CardResponse{
		ID:            card.ID.String(),
		DeckID:        card.DeckID.String(),
		Front:         card.Front,
		Back:          card.Back,
		Difficulty:    card.Difficulty,
		NextReviewAt:  card.NextReviewAt,
		ReviewHistory: history,
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
}
