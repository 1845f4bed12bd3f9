package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountBalance is the materialized credit balance for one account.
// It is a cached aggregate of the account's transactions, maintained
// incrementally by the ledger service in the same atomic unit as each
// log append. Nothing else may mutate it.
//
// Balances are created lazily on an account's first ledger operation;
// an account with no row is treated as having a balance of zero.
type AccountBalance struct {
	AccountID uuid.UUID `json:"account_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
