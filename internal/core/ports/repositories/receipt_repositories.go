package repositories

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// SettleResult reports what a SettlePayment call did to the ledger.
type SettleResult struct {
	Receipt    domain.RentReceipt // The stored receipt, Partial flag resolved
	Completed  bool               // Cumulative paid reached amount due (including earlier crossings)
	CrossedNow bool               // This call advanced the ledger's paid amount
}

// ReceiptRepositoryFacade defines persistence operations for rent receipts.
//
// SettlePayment is the single write path for reconciliation: it inserts the
// receipt, sets the source transaction's receipt back-reference, and — when
// the cumulative receipts for the period first reach the amount due —
// advances the ledger entry, all inside one database transaction holding a
// row lock on the ledger entry. Concurrent settlements for the same
// tenant/period therefore serialize instead of losing updates.
type ReceiptRepositoryFacade interface {
	// SettlePayment atomically records the receipt against the given ledger
	// entry. The receipt's Partial flag is computed inside the lock from the
	// cumulative paid amount. Returns apperrors.ErrConflict when the source
	// transaction already carries a receipt back-reference or when the
	// update would reduce the ledger's paid amount.
	SettlePayment(ctx context.Context, receipt domain.RentReceipt, entry domain.LedgerEntry) (*SettleResult, error)

	// FindReceiptsByTenantAndPeriod returns all receipts recorded for the
	// tenant and period, oldest first.
	FindReceiptsByTenantAndPeriod(ctx context.Context, tenantID string, period domain.Period) ([]domain.RentReceipt, error)

	// FindReceiptsByTenant returns all receipts for a tenant, newest first.
	FindReceiptsByTenant(ctx context.Context, tenantID string) ([]domain.RentReceipt, error)
}
