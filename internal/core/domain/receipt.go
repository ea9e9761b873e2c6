package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchMethod records which evidence tier linked a payment to a tenant.
type MatchMethod string

const (
	MatchByReferenceCode MatchMethod = "REFERENCE_CODE"
	MatchByPhone         MatchMethod = "PHONE"
	MatchByNameAmount    MatchMethod = "NAME_AMOUNT"
	MatchManual          MatchMethod = "MANUAL"
)

// RentReceipt is the immutable proof that an amount was credited toward a
// tenant's obligation for a period. Corrections are made by adding new
// receipts, never by mutating or deleting existing ones.
type RentReceipt struct {
	ReceiptID     string          `json:"receiptID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	Period        Period          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paidAt"`
	MatchMethod   MatchMethod     `json:"matchMethod"`
	TransactionID *string         `json:"transactionID"` // Consumed BankTransaction; nil for manual receipts
	Partial       bool            `json:"partial"`       // True when this receipt alone did not complete the period
	AuditFields
}

// IsPartial reports whether the receipt left the period's obligation
// incomplete at the time it was recorded.
func (r RentReceipt) IsPartial() bool {
	return r.Partial
}

// MatchedVia returns the evidence tier that produced this receipt.
func (r RentReceipt) MatchedVia() MatchMethod {
	return r.MatchMethod
}

// HasSourceTransaction reports whether the receipt is backed by a bank
// transaction, as opposed to a manual operator entry.
func (r RentReceipt) HasSourceTransaction() bool {
	return r.TransactionID != nil
}
