package services

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Notifier is the outbound alert channel (SMS / admin chat). All calls are
// fire-and-forget from the workflow's point of view: a notifier failure is
// logged and swallowed, never allowed to roll back a reconciliation decision
// that already succeeded.
type Notifier interface {
	// PaymentCompleted confirms that a tenant's obligation for the period is
	// fully covered.
	PaymentCompleted(ctx context.Context, tenant domain.Tenant, period domain.Period, amount decimal.Decimal) error

	// PaymentIncomplete warns that a partial payment was recorded and the
	// remainder is still outstanding.
	PaymentIncomplete(ctx context.Context, tenant domain.Tenant, period domain.Period, paid, due decimal.Decimal) error

	// DepositDetected alerts the operator that an incoming payment looks
	// like a security deposit rather than rent.
	DepositDetected(ctx context.Context, tenant domain.Tenant, amount decimal.Decimal) error

	// SmallPaymentSkipped alerts that a matched payment was below the
	// acceptance threshold and was left for later aggregation.
	SmallPaymentSkipped(ctx context.Context, tenant domain.Tenant, period domain.Period, amount, due decimal.Decimal) error
}

// ChangeBroadcaster publishes a single data-changed signal after a
// successful ledger update, for live dashboard consumers.
type ChangeBroadcaster interface {
	DataChanged(ctx context.Context) error
}
