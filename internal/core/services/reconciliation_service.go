package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/middleware"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
)

// reconciliationActor is the audit identity for receipts created by the
// automated workflow.
const reconciliationActor = "system:reconciliation"

// reconciliationService implements the payment reconciliation workflow: the
// sequential decision chain that turns one persisted bank transaction into
// at most one rent receipt and, when the period's cumulative receipts reach
// the amount due, one ledger advance.
type reconciliationService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	receiptRepo portsrepo.ReceiptRepositoryFacade
	resolver    portssvc.TenantResolverFacade
	notifier    portssvc.Notifier
	broadcaster portssvc.ChangeBroadcaster
	cfg         config.ReconciliationConfig
}

// NewReconciliationService creates the reconciliation workflow with its
// collaborators injected.
func NewReconciliationService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	resolver portssvc.TenantResolverFacade,
	notifier portssvc.Notifier,
	broadcaster portssvc.ChangeBroadcaster,
	cfg config.ReconciliationConfig,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		txnRepo:     txnRepo,
		tenantRepo:  tenantRepo,
		ledgerRepo:  ledgerRepo,
		receiptRepo: receiptRepo,
		resolver:    resolver,
		notifier:    notifier,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile processes one persisted transaction. A nil receipt with a nil
// error means the transaction was examined and deliberately not credited —
// the frequent, expected outcome for outgoing transfers, unknown senders,
// deposits and below-threshold installments.
func (s *reconciliationService) Reconcile(ctx context.Context, transactionID string, sameDayTotal *decimal.Decimal) (*domain.RentReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("transaction_id", transactionID))

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}

	// Idempotency: a transaction already consumed by a receipt is a no-op.
	if txn.IsReconciled() {
		logger.Info("Transaction already reconciled, skipping", slog.String("receipt_id", *txn.ReceiptID))
		return nil, nil
	}

	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	// 1. Only incoming instant consumer payments can be rent.
	if txn.Direction() != domain.DirectionIncoming || !txn.IsInstantPayment() {
		logger.Debug("Not an incoming instant payment, skipping",
			slog.String("direction", string(txn.Direction())),
			slog.String("channel", txn.ChannelLabel()),
		)
		return nil, nil
	}

	// 2. Resolve the owning tenant.
	tenants, err := s.tenantRepo.ListActiveTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	tenant, method := s.resolver.Resolve(ctx, *txn, tenants)
	if tenant == nil {
		logger.Info("No tenant matched transaction, skipping",
			slog.String("counterparty", txn.CounterpartyName),
			slog.String("amount", txn.Amount.String()),
		)
		return nil, nil
	}
	logger = logger.With(slog.String("tenant_id", tenant.TenantID), slog.String("match_method", string(method)))

	// 3. Deposit disambiguation: shortly after move-in, amounts inside a
	// deposit band are deposits even when tenant and amount match cleanly.
	if s.looksLikeDeposit(*txn, *tenant) {
		logger.Info("Deposit detected, no rent receipt created", slog.String("amount", txn.Amount.String()))
		s.notify(ctx, "deposit alert", func() error {
			return s.notifier.DepositDetected(ctx, *tenant, txn.Amount)
		})
		return nil, nil
	}

	// 4. Find the obligation this payment is for.
	entry, err := s.impliedLedgerEntry(ctx, tenant.TenantID, txn.BookedAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("No ledger entry for implied period, skipping",
				slog.String("period", domain.PeriodOf(txn.BookedAt).String()),
			)
			return nil, nil
		}
		return nil, err
	}
	logger = logger.With(slog.String("period", entry.Period.String()))

	// 5. The caller may supply a same-day or group total to evaluate jointly.
	effective := txn.Amount
	if sameDayTotal != nil {
		effective = *sameDayTotal
	}

	// 6. Threshold policy: explicit references are trusted for any amount;
	// everything else must reach the minimum share of the amount due.
	if method != domain.MatchByReferenceCode {
		minimum := entry.AmountDue.Mul(s.cfg.MinPaymentRatio)
		if effective.LessThan(minimum) {
			logger.Info("Small/unconfirmed payment below threshold, skipping",
				slog.String("effective_amount", effective.String()),
				slog.String("amount_due", entry.AmountDue.String()),
			)
			s.notify(ctx, "small payment alert", func() error {
				return s.notifier.SmallPaymentSkipped(ctx, *tenant, entry.Period, txn.Amount, entry.AmountDue)
			})
			return nil, nil
		}
	}

	// 7-9. Record the receipt for the transaction's own amount and advance
	// the ledger when the cumulative paid amount first reaches the due
	// amount. This is one atomic repository operation under a ledger row
	// lock.
	now := time.Now().UTC()
	receipt := domain.RentReceipt{
		ReceiptID:     uuid.NewString(),
		TenantID:      tenant.TenantID,
		Period:        entry.Period,
		Amount:        txn.Amount,
		PaidAt:        txn.BookedAt,
		MatchMethod:   method,
		TransactionID: &txn.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     reconciliationActor,
			LastUpdatedAt: now,
			LastUpdatedBy: reconciliationActor,
		},
	}

	result, err := s.receiptRepo.SettlePayment(ctx, receipt, *entry)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment for transaction %s: %w", transactionID, err)
	}

	if result.Completed {
		logger.Info("Payment completed period obligation",
			slog.String("receipt_id", result.Receipt.ReceiptID),
			slog.Bool("crossed_now", result.CrossedNow),
		)
		if result.CrossedNow {
			s.notify(ctx, "completion notification", func() error {
				return s.notifier.PaymentCompleted(ctx, *tenant, entry.Period, entry.AmountDue)
			})
			s.notify(ctx, "change broadcast", func() error {
				return s.broadcaster.DataChanged(ctx)
			})
		}
	} else {
		logger.Info("Partial payment recorded",
			slog.String("receipt_id", result.Receipt.ReceiptID),
			slog.String("amount", result.Receipt.Amount.String()),
		)
		s.notify(ctx, "incomplete payment notification", func() error {
			return s.notifier.PaymentIncomplete(ctx, *tenant, entry.Period, result.Receipt.Amount, entry.AmountDue)
		})
	}

	return &result.Receipt, nil
}

// looksLikeDeposit applies the deposit disambiguation rule: the tenancy
// started within the deposit-collection window of the payment date and the
// amount falls in a known deposit band. Deposits share the payment channel
// with rent and can coincide with genuine rent amounts; recency of move-in
// is the deciding signal.
func (s *reconciliationService) looksLikeDeposit(txn domain.BankTransaction, tenant domain.Tenant) bool {
	if tenant.MoveInDate.IsZero() {
		return false
	}
	sinceMoveIn := txn.BookedAt.Sub(tenant.MoveInDate)
	if sinceMoveIn < 0 || sinceMoveIn > time.Duration(s.cfg.DepositWindowDays)*24*time.Hour {
		return false
	}
	amount := txn.Amount.Abs()
	inFirstBand := amount.GreaterThanOrEqual(s.cfg.FirstDepositMin) && amount.LessThanOrEqual(s.cfg.FirstDepositMax)
	inCompositeBand := amount.GreaterThanOrEqual(s.cfg.CompositeDepositMin) && amount.LessThanOrEqual(s.cfg.CompositeDepositMax)
	return inFirstBand || inCompositeBand
}

// impliedLedgerEntry finds the obligation the transaction date points at:
// the booked calendar month, falling back to the following month when no
// entry exists for the booked month and the booked day is already inside
// the rent-paying window (prepayment for the coming period).
func (s *reconciliationService) impliedLedgerEntry(ctx context.Context, tenantID string, bookedAt time.Time) (*domain.LedgerEntry, error) {
	period := domain.PeriodOf(bookedAt)
	entry, err := s.ledgerRepo.FindEntry(ctx, tenantID, period)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load ledger entry for %s/%s: %w", tenantID, period, err)
	}
	if bookedAt.Day() >= s.cfg.RentWindowStartDay {
		next := period.Next()
		entry, nextErr := s.ledgerRepo.FindEntry(ctx, tenantID, next)
		if nextErr != nil && !errors.Is(nextErr, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load ledger entry for %s/%s: %w", tenantID, next, nextErr)
		}
		return entry, nextErr
	}
	return nil, err
}

// notify runs a fire-and-forget collaborator call. Failures are logged and
// swallowed: the ledger mutation already happened and must stand.
func (s *reconciliationService) notify(ctx context.Context, what string, fn func() error) {
	if err := fn(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Collaborator call failed",
			slog.String("call", what),
			slog.String("error", err.Error()),
		)
	}
}
