package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentReceipt represents one immutable receipt row.
type RentReceipt struct {
	ReceiptID     string          `json:"receiptID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	Period        string          `json:"period"` // YYYY-MM
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paidAt"`
	MatchMethod   string          `json:"matchMethod"`
	TransactionID *string         `json:"transactionID"` // Nullable, manual receipts have none
	Partial       bool            `json:"partial"`
	AuditFields
}
