package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/middleware"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
)

// aggregationService retroactively finds groups of two or more unreconciled
// transactions from one tenant whose amounts jointly satisfy a period's
// obligation — the case of rent split into several transfers over several
// days, none of which individually passed the payment threshold.
type aggregationService struct {
	txnRepo           portsrepo.TransactionRepositoryFacade
	tenantRepo        portsrepo.TenantRepositoryFacade
	ledgerRepo        portsrepo.LedgerRepositoryFacade
	resolver          portssvc.TenantResolverFacade
	reconciliationSvc portssvc.ReconciliationSvcFacade
	cfg               config.ReconciliationConfig
}

// NewAggregationService creates the payment aggregator.
func NewAggregationService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	resolver portssvc.TenantResolverFacade,
	reconciliationSvc portssvc.ReconciliationSvcFacade,
	cfg config.ReconciliationConfig,
) portssvc.AggregationSvcFacade {
	return &aggregationService{
		txnRepo:           txnRepo,
		tenantRepo:        tenantRepo,
		ledgerRepo:        ledgerRepo,
		resolver:          resolver,
		reconciliationSvc: reconciliationSvc,
		cfg:               cfg,
	}
}

var _ portssvc.AggregationSvcFacade = (*aggregationService)(nil)

// FindPartialGroups returns at most one winning group for the period
// containing periodStart. The subset search is a bounded subset-sum with
// tolerance: candidate sets are small in practice, and sets larger than the
// configured cap fail closed rather than risk exponential work.
func (s *aggregationService) FindPartialGroups(ctx context.Context, tenantID string, periodStart time.Time) ([]domain.PaymentGroup, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("tenant_id", tenantID))

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}

	period := domain.PeriodOf(periodStart)
	entry, err := s.ledgerRepo.FindEntry(ctx, tenantID, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("No ledger entry for period, nothing to aggregate", slog.String("period", period.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ledger entry for %s/%s: %w", tenantID, period, err)
	}
	if entry.IsSettled() {
		return nil, nil
	}

	candidates, err := s.candidateTransactions(ctx, *tenant, period)
	if err != nil {
		return nil, err
	}
	if len(candidates) < 2 {
		return nil, nil
	}
	if len(candidates) > s.cfg.MaxAggregationCandidates {
		// Fail closed: an oversized candidate set is untrusted input, not a
		// reason for an exponential search.
		logger.Warn("Candidate set exceeds aggregation cap, returning no group",
			slog.Int("candidates", len(candidates)),
			slog.Int("cap", s.cfg.MaxAggregationCandidates),
		)
		return nil, nil
	}

	best := s.searchSubsets(candidates, entry.AmountDue)
	if best == nil {
		return nil, nil
	}

	group := domain.PaymentGroup{
		TenantID:     tenantID,
		Period:       period,
		Transactions: best,
		Total:        sumAmounts(best),
	}
	logger.Info("Aggregated payment group found",
		slog.String("period", period.String()),
		slog.Int("members", len(best)),
		slog.String("total", group.Total.String()),
	)
	return []domain.PaymentGroup{group}, nil
}

// ApplyGroup feeds each member of the group back through the reconciliation
// workflow with the group total as the joint amount, so every member
// receives its own receipt and the threshold check evaluates the total.
func (s *aggregationService) ApplyGroup(ctx context.Context, group domain.PaymentGroup) ([]*domain.RentReceipt, error) {
	members := make([]domain.BankTransaction, len(group.Transactions))
	copy(members, group.Transactions)
	sort.Slice(members, func(i, j int) bool { return members[i].BookedAt.Before(members[j].BookedAt) })

	receipts := make([]*domain.RentReceipt, 0, len(members))
	for _, txn := range members {
		receipt, err := s.reconciliationSvc.Reconcile(ctx, txn.TransactionID, &group.Total)
		if err != nil {
			return receipts, fmt.Errorf("failed to reconcile group member %s: %w", txn.TransactionID, err)
		}
		if receipt != nil {
			receipts = append(receipts, receipt)
		}
	}
	return receipts, nil
}

// candidateTransactions returns the tenant's incoming instant payments
// booked inside the rent-paying window for the period: the day-of-month
// range applied to both the period month and the month before it
// (prepayments). Transactions already claimed by a partial receipt stay in
// the set, so a partial payment and its later remainder can still group up
// to the full amount due.
func (s *aggregationService) candidateTransactions(ctx context.Context, tenant domain.Tenant, period domain.Period) ([]domain.BankTransaction, error) {
	from := period.Prev().Start().AddDate(0, 0, s.cfg.RentWindowStartDay-1)
	to := period.Start().AddDate(0, 0, s.cfg.RentWindowEndDay).Add(-time.Nanosecond)

	txns, err := s.txnRepo.ListUnreconciledBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list unreconciled transactions: %w", err)
	}

	candidates := make([]domain.BankTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Direction() != domain.DirectionIncoming || !txn.IsInstantPayment() {
			continue
		}
		day := txn.BookedAt.Day()
		if day < s.cfg.RentWindowStartDay || day > s.cfg.RentWindowEndDay {
			continue
		}
		if !s.resolver.AttributedTo(txn, tenant) {
			continue
		}
		candidates = append(candidates, txn)
	}
	return candidates, nil
}

// searchSubsets enumerates all subsets of size >= 2 and returns the winner:
// total within tolerance of the amount due, members no further apart than
// the span cap, preferring the subset whose latest transaction is most
// recent, then the one with fewer members, then the smaller deviation from
// the amount due, then the lexicographically smallest member id list.
func (s *aggregationService) searchSubsets(candidates []domain.BankTransaction, amountDue decimal.Decimal) []domain.BankTransaction {
	tolerance := s.cfg.AggregationToleranceAbs
	if pct := amountDue.Mul(s.cfg.AggregationTolerancePct); pct.GreaterThan(tolerance) {
		tolerance = pct
	}
	maxSpan := time.Duration(s.cfg.MaxGroupSpanDays) * 24 * time.Hour

	var (
		best          []domain.BankTransaction
		bestLatest    time.Time
		bestDeviation decimal.Decimal
		bestKey       string
	)

	n := len(candidates)
	for mask := 1; mask < 1<<n; mask++ {
		if bits.OnesCount(uint(mask)) < 2 {
			continue
		}

		subset := make([]domain.BankTransaction, 0, bits.OnesCount(uint(mask)))
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, candidates[i])
			}
		}

		group := domain.PaymentGroup{Transactions: subset}
		if group.LatestAt().Sub(group.EarliestAt()) > maxSpan {
			continue
		}

		deviation := sumAmounts(subset).Sub(amountDue).Abs()
		if deviation.GreaterThan(tolerance) {
			continue
		}

		latest := group.LatestAt()
		key := memberKey(subset)
		if best == nil || betterGroup(latest, len(subset), deviation, key, bestLatest, len(best), bestDeviation, bestKey) {
			best = subset
			bestLatest = latest
			bestDeviation = deviation
			bestKey = key
		}
	}

	if best != nil {
		sort.Slice(best, func(i, j int) bool { return best[i].BookedAt.Before(best[j].BookedAt) })
	}
	return best
}

// betterGroup is the deterministic tie-break ordering between two valid
// subsets.
func betterGroup(latest time.Time, size int, deviation decimal.Decimal, key string, bestLatest time.Time, bestSize int, bestDeviation decimal.Decimal, bestKey string) bool {
	if !latest.Equal(bestLatest) {
		return latest.After(bestLatest)
	}
	if size != bestSize {
		return size < bestSize
	}
	if !deviation.Equal(bestDeviation) {
		return deviation.LessThan(bestDeviation)
	}
	return key < bestKey
}

func memberKey(txns []domain.BankTransaction) string {
	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TransactionID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func sumAmounts(txns []domain.BankTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total
}
