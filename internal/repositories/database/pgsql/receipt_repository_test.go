package pgsql

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

// scriptedSettleTx replays canned results for the settle statement sequence
// and records every statement it sees, in order.
type scriptedSettleTx struct {
	statements []string
	insertArgs []any

	amountDue  decimal.Decimal
	amountPaid decimal.Decimal
	paidAt     *time.Time
	priorSum   decimal.Decimal
	claimTag   string
	advanceTag string
}

func (s *scriptedSettleTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.statements = append(s.statements, sql)
	switch {
	case strings.Contains(sql, "FOR UPDATE"):
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*decimal.Decimal) = s.amountDue
			*dest[1].(*decimal.Decimal) = s.amountPaid
			*dest[2].(**time.Time) = s.paidAt
			return nil
		}}
	case strings.Contains(sql, "SUM(amount)"):
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*decimal.Decimal) = s.priorSum
			return nil
		}}
	}
	return stubRow{scan: func(...any) error { return pgx.ErrNoRows }}
}

func (s *scriptedSettleTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.statements = append(s.statements, sql)
	switch {
	case strings.Contains(sql, "INSERT INTO rent_receipts"):
		s.insertArgs = args
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "UPDATE bank_transactions"):
		return pgconn.NewCommandTag(s.claimTag), nil
	case strings.Contains(sql, "UPDATE rent_ledger"):
		return pgconn.NewCommandTag(s.advanceTag), nil
	}
	return pgconn.NewCommandTag(""), nil
}

func statementIndex(statements []string, fragment string) int {
	for i, stmt := range statements {
		if strings.Contains(stmt, fragment) {
			return i
		}
	}
	return -1
}

func settleInputs(amount int64) (domain.RentReceipt, domain.LedgerEntry) {
	transactionID := "txn-1"
	now := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	receipt := domain.RentReceipt{
		ReceiptID:     "rcpt-1",
		TenantID:      "tenant-1",
		Period:        domain.Period("2025-10"),
		Amount:        decimal.NewFromInt(amount),
		PaidAt:        now,
		MatchMethod:   domain.MatchByPhone,
		TransactionID: &transactionID,
	}
	entry := domain.LedgerEntry{
		LedgerID:  "ledger-oct",
		TenantID:  "tenant-1",
		Period:    domain.Period("2025-10"),
		AmountDue: decimal.NewFromInt(6303),
	}
	return receipt, entry
}

func TestSettle_InsertsReceiptBeforeClaimingTransaction(t *testing.T) {
	script := &scriptedSettleTx{
		amountDue:  decimal.NewFromInt(6303),
		claimTag:   "UPDATE 1",
		advanceTag: "UPDATE 1",
	}
	receipt, entry := settleInputs(6303)

	repo := &PgxReceiptRepository{}
	result, err := repo.settle(context.Background(), script, receipt, entry)

	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.True(t, result.CrossedNow)
	assert.False(t, result.Receipt.Partial)

	// The claim UPDATE references the receipt row through a foreign key, so
	// the insert has to come first for the statement to pass validation.
	insertIdx := statementIndex(script.statements, "INSERT INTO rent_receipts")
	claimIdx := statementIndex(script.statements, "UPDATE bank_transactions")
	require.GreaterOrEqual(t, insertIdx, 0)
	require.GreaterOrEqual(t, claimIdx, 0)
	assert.Less(t, insertIdx, claimIdx)
}

func TestSettle_AlreadyClaimedTransactionConflicts(t *testing.T) {
	script := &scriptedSettleTx{
		amountDue: decimal.NewFromInt(6303),
		claimTag:  "UPDATE 0",
	}
	receipt, entry := settleInputs(6303)

	repo := &PgxReceiptRepository{}
	result, err := repo.settle(context.Background(), script, receipt, entry)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSettle_PartialReceiptLeavesLedgerUntouched(t *testing.T) {
	script := &scriptedSettleTx{
		amountDue: decimal.NewFromInt(6303),
		claimTag:  "UPDATE 1",
	}
	receipt, entry := settleInputs(3000)

	repo := &PgxReceiptRepository{}
	result, err := repo.settle(context.Background(), script, receipt, entry)

	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.True(t, result.Receipt.Partial)
	// The partial flag is resolved before the row is written.
	require.Len(t, script.insertArgs, 12)
	assert.Equal(t, true, script.insertArgs[7])
	assert.Equal(t, -1, statementIndex(script.statements, "UPDATE rent_ledger"))
}

func TestSettle_PostCrossingReceiptDoesNotReAdvance(t *testing.T) {
	paidAt := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	script := &scriptedSettleTx{
		amountDue:  decimal.NewFromInt(6303),
		amountPaid: decimal.NewFromInt(6303),
		paidAt:     &paidAt,
		priorSum:   decimal.NewFromInt(6303),
		claimTag:   "UPDATE 1",
	}
	receipt, entry := settleInputs(200)

	repo := &PgxReceiptRepository{}
	result, err := repo.settle(context.Background(), script, receipt, entry)

	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.False(t, result.CrossedNow)
	assert.Equal(t, -1, statementIndex(script.statements, "UPDATE rent_ledger"))
}
