package services

import (
	"context"
	"time"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationSvcFacade is the single entry point for turning a persisted
// bank transaction into a rent receipt and ledger mutation.
//
// Expected non-matches — outgoing or non-instant transactions, unresolvable
// tenants, detected deposits, below-threshold amounts, missing ledger
// entries, already-reconciled transactions — return (nil, nil). Errors are
// reserved for data-integrity violations and storage failures.
type ReconciliationSvcFacade interface {
	// Reconcile processes one persisted transaction. sameDayTotal, when
	// non-nil, is the caller-supplied aggregate amount for the banking day
	// (or an aggregated group total) evaluated against the payment
	// threshold in place of the transaction's own amount; the receipt is
	// always created for the transaction's own amount.
	Reconcile(ctx context.Context, transactionID string, sameDayTotal *decimal.Decimal) (*domain.RentReceipt, error)
}

// AggregationSvcFacade finds groups of unmatched or partial transactions
// that jointly satisfy a period's obligation.
type AggregationSvcFacade interface {
	// FindPartialGroups returns at most one winning group for the period
	// containing periodStart, or an empty slice when no combination of the
	// tenant's candidate transactions sums to the amount due within
	// tolerance.
	FindPartialGroups(ctx context.Context, tenantID string, periodStart time.Time) ([]domain.PaymentGroup, error)

	// ApplyGroup feeds each member of a group back through the
	// reconciliation workflow with the group total as the aggregate amount,
	// so every member receives its own receipt.
	ApplyGroup(ctx context.Context, group domain.PaymentGroup) ([]*domain.RentReceipt, error)
}

// TenantResolverFacade identifies the tenant a transaction belongs to.
type TenantResolverFacade interface {
	// Resolve returns the best-matching tenant and the evidence tier that
	// matched, or (nil, "") when no tenant matches.
	Resolve(ctx context.Context, txn domain.BankTransaction, tenants []domain.Tenant) (*domain.Tenant, domain.MatchMethod)

	// AttributedTo reports whether the transaction plausibly belongs to the
	// tenant, without requiring the amount to line up. The aggregator uses
	// this to build candidate sets out of partial payments whose individual
	// amounts match nothing.
	AttributedTo(txn domain.BankTransaction, tenant domain.Tenant) bool
}
