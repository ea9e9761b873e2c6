package notify

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/middleware"
)

// LogNotifier writes alerts to the structured log. It stands in for the SMS
// and chat channels in environments where none is configured; the workflow
// treats every notifier as fire-and-forget either way.
type LogNotifier struct{}

// NewLogNotifier creates a notifier backed by the request-scoped logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) PaymentCompleted(ctx context.Context, tenant domain.Tenant, period domain.Period, amount decimal.Decimal) error {
	middleware.GetLoggerFromCtx(ctx).Info("NOTIFY payment completed",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("tenant", tenant.FullName),
		slog.String("period", period.String()),
		slog.String("amount", amount.String()),
	)
	return nil
}

func (n *LogNotifier) PaymentIncomplete(ctx context.Context, tenant domain.Tenant, period domain.Period, paid, due decimal.Decimal) error {
	middleware.GetLoggerFromCtx(ctx).Info("NOTIFY partial payment recorded",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("tenant", tenant.FullName),
		slog.String("period", period.String()),
		slog.String("paid", paid.String()),
		slog.String("due", due.String()),
	)
	return nil
}

func (n *LogNotifier) DepositDetected(ctx context.Context, tenant domain.Tenant, amount decimal.Decimal) error {
	middleware.GetLoggerFromCtx(ctx).Warn("NOTIFY deposit detected",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("tenant", tenant.FullName),
		slog.String("amount", amount.String()),
	)
	return nil
}

func (n *LogNotifier) SmallPaymentSkipped(ctx context.Context, tenant domain.Tenant, period domain.Period, amount, due decimal.Decimal) error {
	middleware.GetLoggerFromCtx(ctx).Warn("NOTIFY small payment skipped",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("tenant", tenant.FullName),
		slog.String("period", period.String()),
		slog.String("amount", amount.String()),
		slog.String("due", due.String()),
	)
	return nil
}
