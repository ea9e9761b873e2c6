package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one tenant's rent obligation for one period. AmountPaid is
// only advanced once the cumulative receipts for the period reach AmountDue;
// partial receipts are visible through the receipt trail, not here.
type LedgerEntry struct {
	LedgerID   string          `json:"ledgerID"` // Primary Key (UUID)
	TenantID   string          `json:"tenantID"`
	Period     Period          `json:"period"`
	AmountDue  decimal.Decimal `json:"amountDue"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	PaidAt     *time.Time      `json:"paidAt"` // Set once, when the threshold is first crossed
	AuditFields
}

// IsSettled reports whether the obligation has been marked fully paid.
func (e LedgerEntry) IsSettled() bool {
	return e.PaidAt != nil
}
