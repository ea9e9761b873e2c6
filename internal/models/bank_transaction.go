package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction represents one row of the bank feed as persisted. The raw
// provider payload is kept verbatim in a JSONB column so later matching
// improvements can re-read fields the current pipeline ignores.
type BankTransaction struct {
	TransactionID    string          `json:"transactionID"` // Primary Key (UUID)
	ExternalID       string          `json:"externalID"`    // Provider id, unique
	AccountID        string          `json:"accountID"`     // Receiving bank account
	BookedAt         time.Time       `json:"bookedAt"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Description      string          `json:"description"`
	CounterpartyName string          `json:"counterpartyName"`
	RawPayload       json.RawMessage `json:"rawPayload"` // JSONB
	ReceiptID        *string         `json:"receiptID"`  // FK -> rent_receipts, set when consumed
	AuditFields
}
