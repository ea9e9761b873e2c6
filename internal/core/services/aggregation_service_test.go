package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/core/services"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) Reconcile(ctx context.Context, transactionID string, sameDayTotal *decimal.Decimal) (*domain.RentReceipt, error) {
	args := m.Called(ctx, transactionID, sameDayTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentReceipt), args.Error(1)
}

type aggregateFixture struct {
	txnRepo    *MockTransactionRepository
	tenantRepo *MockTenantRepository
	ledgerRepo *MockLedgerRepository
	reconciler *MockReconciliationService
	svc        portssvc.AggregationSvcFacade
}

func newAggregateFixture(t *testing.T) *aggregateFixture {
	t.Helper()
	f := &aggregateFixture{
		txnRepo:    new(MockTransactionRepository),
		tenantRepo: new(MockTenantRepository),
		ledgerRepo: new(MockLedgerRepository),
		reconciler: new(MockReconciliationService),
	}
	cfg := config.DefaultReconciliationConfig()
	f.svc = services.NewAggregationService(
		f.txnRepo, f.tenantRepo, f.ledgerRepo,
		services.NewTenantResolver(cfg),
		f.reconciler, cfg,
	)
	return f
}

func annaSplitTxn(id string, amount int64, year int, month time.Month, day int) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    id,
		ExternalID:       "ext-" + id,
		BookedAt:         time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(amount),
		Currency:         "HUF",
		Description:      "atutalas",
		CounterpartyName: "Kovacs Anna",
		RawPayload:       instantPayload(),
	}
}

func (f *aggregateFixture) expectAnnaOctober(due int64, candidates []domain.BankTransaction) {
	anna := testTenants()[0]
	f.tenantRepo.On("FindTenantByID", mock.Anything, annaID).Return(&anna, nil)
	f.ledgerRepo.On("FindEntry", mock.Anything, annaID, domain.Period("2025-10")).Return(octoberEntry(due), nil)
	f.txnRepo.On("ListUnreconciledBetween", mock.Anything, mock.Anything, mock.Anything).Return(candidates, nil)
}

func october() time.Time {
	return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
}

func TestFindPartialGroups_CombinesSplitPayments(t *testing.T) {
	f := newAggregateFixture(t)

	f.expectAnnaOctober(6303, []domain.BankTransaction{
		annaSplitTxn("txn-a", 3000, 2025, time.October, 18),
		annaSplitTxn("txn-b", 3303, 2025, time.October, 24),
	})

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	require.Len(t, groups, 1)
	group := groups[0]
	assert.Equal(t, domain.Period("2025-10"), group.Period)
	assert.Len(t, group.Transactions, 2)
	assert.True(t, group.Total.Equal(decimal.NewFromInt(6303)))
	// Members are ordered by booking date.
	assert.Equal(t, "txn-a", group.Transactions[0].TransactionID)
	assert.Equal(t, "txn-b", group.Transactions[1].TransactionID)
}

func TestFindPartialGroups_ToleranceIsBounded(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []int64
		wantGroup bool
	}{
		{name: "total 90 under due", amounts: []int64{3000, 3213}, wantGroup: true},
		{name: "total 100 over due", amounts: []int64{3400, 3003}, wantGroup: true},
		{name: "total 150 under due", amounts: []int64{3000, 3153}, wantGroup: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAggregateFixture(t)

			candidates := make([]domain.BankTransaction, len(tt.amounts))
			for i, amount := range tt.amounts {
				candidates[i] = annaSplitTxn(fmt.Sprintf("txn-%d", i), amount, 2025, time.October, 18+i)
			}
			f.expectAnnaOctober(6303, candidates)

			groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

			assert.NoError(t, err)
			if tt.wantGroup {
				assert.Len(t, groups, 1)
			} else {
				assert.Empty(t, groups)
			}
		})
	}
}

func TestFindPartialGroups_SpanCapRejectsDistantPair(t *testing.T) {
	f := newAggregateFixture(t)

	// Both inside the day-of-month window, but 27 days apart across the
	// month boundary.
	f.expectAnnaOctober(6303, []domain.BankTransaction{
		annaSplitTxn("txn-a", 3000, 2025, time.September, 20),
		annaSplitTxn("txn-b", 3303, 2025, time.October, 17),
	})

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindPartialGroups_LatestGroupWinsOverlap(t *testing.T) {
	f := newAggregateFixture(t)

	// Two valid combinations share txn-a. The one whose latest member is
	// most recent wins even though its total deviates more.
	f.expectAnnaOctober(6303, []domain.BankTransaction{
		annaSplitTxn("txn-a", 3000, 2025, time.October, 16),
		annaSplitTxn("txn-b", 3303, 2025, time.October, 20),
		annaSplitTxn("txn-c", 3300, 2025, time.October, 24),
	})

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Transactions, 2)
	assert.Equal(t, "txn-a", groups[0].Transactions[0].TransactionID)
	assert.Equal(t, "txn-c", groups[0].Transactions[1].TransactionID)
}

func TestFindPartialGroups_CompletesAfterPartialReceipt(t *testing.T) {
	f := newAggregateFixture(t)

	// txn-a was already credited as a partial receipt. It still counts
	// towards the group, so the later remainder transfers can close the gap
	// to the full amount due.
	receiptID := "rcpt-partial"
	partial := annaSplitTxn("txn-a", 6100, 2025, time.October, 16)
	partial.ReceiptID = &receiptID

	f.expectAnnaOctober(6303, []domain.BankTransaction{
		partial,
		annaSplitTxn("txn-b", 150, 2025, time.October, 18),
		annaSplitTxn("txn-c", 53, 2025, time.October, 24),
	})

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Transactions, 3)
	assert.True(t, groups[0].Total.Equal(decimal.NewFromInt(6303)))
}

func TestFindPartialGroups_IgnoresOutsidersAndWrongDays(t *testing.T) {
	f := newAggregateFixture(t)

	stranger := annaSplitTxn("txn-x", 3303, 2025, time.October, 20)
	stranger.CounterpartyName = "Teljesen Mas Nev"
	early := annaSplitTxn("txn-y", 3303, 2025, time.October, 5)

	f.expectAnnaOctober(6303, []domain.BankTransaction{
		annaSplitTxn("txn-a", 3000, 2025, time.October, 18),
		stranger,
		early,
	})

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindPartialGroups_CandidateCapFailsClosed(t *testing.T) {
	f := newAggregateFixture(t)

	candidates := make([]domain.BankTransaction, 11)
	for i := range candidates {
		candidates[i] = annaSplitTxn(fmt.Sprintf("txn-%d", i), 573, 2025, time.October, 15+i%12)
	}
	f.expectAnnaOctober(6303, candidates)

	groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindPartialGroups_SettledOrMissingEntry(t *testing.T) {
	t.Run("settled entry", func(t *testing.T) {
		f := newAggregateFixture(t)

		anna := testTenants()[0]
		paidAt := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
		entry := octoberEntry(6303)
		entry.AmountPaid = decimal.NewFromInt(6303)
		entry.PaidAt = &paidAt

		f.tenantRepo.On("FindTenantByID", mock.Anything, annaID).Return(&anna, nil)
		f.ledgerRepo.On("FindEntry", mock.Anything, annaID, domain.Period("2025-10")).Return(entry, nil)

		groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

		assert.NoError(t, err)
		assert.Empty(t, groups)
		f.txnRepo.AssertNotCalled(t, "ListUnreconciledBetween", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no entry for period", func(t *testing.T) {
		f := newAggregateFixture(t)

		anna := testTenants()[0]
		f.tenantRepo.On("FindTenantByID", mock.Anything, annaID).Return(&anna, nil)
		f.ledgerRepo.On("FindEntry", mock.Anything, annaID, domain.Period("2025-10")).Return(nil, apperrors.ErrNotFound)

		groups, err := f.svc.FindPartialGroups(context.Background(), annaID, october())

		assert.NoError(t, err)
		assert.Empty(t, groups)
	})
}

func TestApplyGroup_ReconcilesMembersWithGroupTotal(t *testing.T) {
	f := newAggregateFixture(t)

	group := domain.PaymentGroup{
		TenantID: annaID,
		Period:   domain.Period("2025-10"),
		Transactions: []domain.BankTransaction{
			annaSplitTxn("txn-b", 3303, 2025, time.October, 24),
			annaSplitTxn("txn-a", 3000, 2025, time.October, 18),
		},
		Total: decimal.NewFromInt(6303),
	}

	totalMatcher := mock.MatchedBy(func(total *decimal.Decimal) bool {
		return total != nil && total.Equal(decimal.NewFromInt(6303))
	})
	receiptA := &domain.RentReceipt{ReceiptID: "r-a", Partial: true}
	receiptB := &domain.RentReceipt{ReceiptID: "r-b"}
	f.reconciler.On("Reconcile", mock.Anything, "txn-a", totalMatcher).Return(receiptA, nil).Once()
	f.reconciler.On("Reconcile", mock.Anything, "txn-b", totalMatcher).Return(receiptB, nil).Once()

	receipts, err := f.svc.ApplyGroup(context.Background(), group)

	assert.NoError(t, err)
	require.Len(t, receipts, 2)
	// Earliest member reconciled first.
	assert.Equal(t, "r-a", receipts[0].ReceiptID)
	assert.Equal(t, "r-b", receipts[1].ReceiptID)
	f.reconciler.AssertExpectations(t)
}

func TestApplyGroup_SkipsAlreadyReconciledMember(t *testing.T) {
	f := newAggregateFixture(t)

	receiptID := "rcpt-partial"
	reconciled := annaSplitTxn("txn-a", 6100, 2025, time.October, 16)
	reconciled.ReceiptID = &receiptID

	group := domain.PaymentGroup{
		TenantID: annaID,
		Period:   domain.Period("2025-10"),
		Transactions: []domain.BankTransaction{
			reconciled,
			annaSplitTxn("txn-b", 150, 2025, time.October, 18),
			annaSplitTxn("txn-c", 53, 2025, time.October, 24),
		},
		Total: decimal.NewFromInt(6303),
	}

	// The member with an existing receipt reconciles as a no-op; only the
	// remainder transfers produce new receipts.
	f.reconciler.On("Reconcile", mock.Anything, "txn-a", mock.Anything).Return(nil, nil).Once()
	f.reconciler.On("Reconcile", mock.Anything, "txn-b", mock.Anything).Return(&domain.RentReceipt{ReceiptID: "r-b", Partial: true}, nil).Once()
	f.reconciler.On("Reconcile", mock.Anything, "txn-c", mock.Anything).Return(&domain.RentReceipt{ReceiptID: "r-c"}, nil).Once()

	receipts, err := f.svc.ApplyGroup(context.Background(), group)

	assert.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "r-b", receipts[0].ReceiptID)
	assert.Equal(t, "r-c", receipts[1].ReceiptID)
	f.reconciler.AssertExpectations(t)
}
