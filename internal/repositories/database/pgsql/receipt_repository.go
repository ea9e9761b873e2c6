package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	"github.com/roomledger/roomledger_backend/internal/models"
	"github.com/roomledger/roomledger_backend/internal/utils/mapping"
)

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for rent receipts.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

const receiptColumns = `receipt_id, tenant_id, period, amount, paid_at, match_method, transaction_id, partial, created_at, created_by, last_updated_at, last_updated_by`

func scanReceipt(row pgx.Row) (models.RentReceipt, error) {
	var m models.RentReceipt
	err := row.Scan(
		&m.ReceiptID,
		&m.TenantID,
		&m.Period,
		&m.Amount,
		&m.PaidAt,
		&m.MatchMethod,
		&m.TransactionID,
		&m.Partial,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// settleTx is the slice of pgx.Tx the settle statement sequence needs.
type settleTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SettlePayment records the receipt and advances the ledger entry when the
// cumulative receipts for the period first reach the amount due, all within
// one database transaction. The ledger row is locked FOR UPDATE first, so
// concurrent settlements for the same tenant/period serialize behind each
// other and each one sees the receipts inserted before it.
func (r *PgxReceiptRepository) SettlePayment(ctx context.Context, receipt domain.RentReceipt, entry domain.LedgerEntry) (*portsrepo.SettleResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	result, err := r.settle(ctx, tx, receipt, entry)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgxReceiptRepository) settle(ctx context.Context, tx settleTx, receipt domain.RentReceipt, entry domain.LedgerEntry) (*portsrepo.SettleResult, error) {
	// 1. Lock the ledger row and re-read its current state.
	lockQuery := `
		SELECT amount_due, amount_paid, paid_at
		FROM rent_ledger
		WHERE ledger_id = $1
		FOR UPDATE;
	`
	var locked models.RentLedgerEntry
	err := tx.QueryRow(ctx, lockQuery, entry.LedgerID).Scan(&locked.AmountDue, &locked.AmountPaid, &locked.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entry.LedgerID)
		}
		return nil, fmt.Errorf("failed to lock ledger entry %s: %w", entry.LedgerID, err)
	}

	// 2. Cumulative paid amount for the period, including this receipt.
	var prior decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM rent_receipts
		WHERE tenant_id = $1 AND period = $2;
	`
	if err := tx.QueryRow(ctx, sumQuery, receipt.TenantID, receipt.Period.String()).Scan(&prior); err != nil {
		return nil, fmt.Errorf("failed to sum receipts for %s/%s: %w", receipt.TenantID, receipt.Period, err)
	}
	cumulative := prior.Add(receipt.Amount)
	completed := cumulative.GreaterThanOrEqual(locked.AmountDue)
	crossedNow := completed && locked.PaidAt == nil

	// 3. Insert the receipt with its Partial flag resolved under the lock.
	// The receipt row must exist before the claim below: bank_transactions
	// carries a non-deferred foreign key on receipt_id.
	receipt.Partial = !completed
	m := mapping.ToModelReceipt(receipt)
	insertQuery := `
		INSERT INTO rent_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.ReceiptID,
		m.TenantID,
		m.Period,
		m.Amount,
		m.PaidAt,
		m.MatchMethod,
		m.TransactionID,
		m.Partial,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert receipt %s: %w", m.ReceiptID, err)
	}

	// 4. Claim the source transaction. A transaction that already carries a
	// receipt back-reference was settled by a concurrent run; the rollback
	// then discards the receipt inserted above.
	if receipt.TransactionID != nil {
		claimQuery := `
			UPDATE bank_transactions
			SET receipt_id = $1, last_updated_at = $2, last_updated_by = $3
			WHERE transaction_id = $4 AND receipt_id IS NULL;
		`
		tag, err := tx.Exec(ctx, claimQuery,
			receipt.ReceiptID,
			receipt.LastUpdatedAt,
			receipt.LastUpdatedBy,
			*receipt.TransactionID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to claim transaction %s: %w", *receipt.TransactionID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: transaction %s already reconciled", apperrors.ErrConflict, *receipt.TransactionID)
		}
	}

	// 5. Advance the ledger exactly once, on the first crossing. The guard
	// refuses to move amount_paid backwards.
	if crossedNow {
		if cumulative.LessThan(locked.AmountPaid) {
			return nil, fmt.Errorf("%w: settle would reduce paid amount for ledger %s", apperrors.ErrConflict, entry.LedgerID)
		}
		advanceQuery := `
			UPDATE rent_ledger
			SET amount_paid = $1, paid_at = $2, last_updated_at = $3, last_updated_by = $4
			WHERE ledger_id = $5 AND paid_at IS NULL;
		`
		tag, err := tx.Exec(ctx, advanceQuery,
			cumulative,
			receipt.PaidAt,
			receipt.LastUpdatedAt,
			receipt.LastUpdatedBy,
			entry.LedgerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to advance ledger entry %s: %w", entry.LedgerID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: ledger entry %s advanced concurrently", apperrors.ErrConflict, entry.LedgerID)
		}
	}

	return &portsrepo.SettleResult{
		Receipt:    receipt,
		Completed:  completed,
		CrossedNow: crossedNow,
	}, nil
}

// FindReceiptsByTenantAndPeriod returns all receipts for the tenant and
// period, oldest first.
func (r *PgxReceiptRepository) FindReceiptsByTenantAndPeriod(ctx context.Context, tenantID string, period domain.Period) ([]domain.RentReceipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM rent_receipts
		WHERE tenant_id = $1 AND period = $2
		ORDER BY paid_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for %s/%s: %w", tenantID, period, err)
	}
	defer rows.Close()

	modelReceipts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RentReceipt, error) {
		return scanReceipt(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipts: %w", err)
	}

	return mapping.ToDomainReceiptSlice(modelReceipts), nil
}

// FindReceiptsByTenant returns all receipts for a tenant, newest first.
func (r *PgxReceiptRepository) FindReceiptsByTenant(ctx context.Context, tenantID string) ([]domain.RentReceipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM rent_receipts
		WHERE tenant_id = $1
		ORDER BY paid_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelReceipts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RentReceipt, error) {
		return scanReceipt(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipts: %w", err)
	}

	return mapping.ToDomainReceiptSlice(modelReceipts), nil
}
