package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentLedgerEntry represents one tenant/period obligation row. The pair
// (tenant_id, period) is unique.
type RentLedgerEntry struct {
	LedgerID   string          `json:"ledgerID"` // Primary Key (UUID)
	TenantID   string          `json:"tenantID"`
	Period     string          `json:"period"` // YYYY-MM
	AmountDue  decimal.Decimal `json:"amountDue"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	PaidAt     *time.Time      `json:"paidAt"` // Set once, on threshold crossing
	AuditFields
}
