package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	"github.com/roomledger/roomledger_backend/internal/models"
	"github.com/roomledger/roomledger_backend/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for bank feed data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, external_id, account_id, booked_at, amount, currency, description, counterparty_name, raw_payload, receipt_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.ExternalID,
		&m.AccountID,
		&m.BookedAt,
		&m.Amount,
		&m.Currency,
		&m.Description,
		&m.CounterpartyName,
		&m.RawPayload,
		&m.ReceiptID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// UpsertTransaction inserts the transaction, keyed on the provider-assigned
// external id. Re-ingesting an already known feed entry is a no-op that
// returns the stored record, including any receipt back-reference it has
// accumulated since.
func (r *PgxTransactionRepository) UpsertTransaction(ctx context.Context, txn domain.BankTransaction) (*domain.BankTransaction, error) {
	m := mapping.ToModelBankTransaction(txn)

	insertQuery := `
		INSERT INTO bank_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (external_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, insertQuery,
		m.TransactionID,
		m.ExternalID,
		m.AccountID,
		m.BookedAt,
		m.Amount,
		m.Currency,
		m.Description,
		m.CounterpartyName,
		m.RawPayload,
		m.ReceiptID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert transaction %s: %w", m.ExternalID, err)
	}

	selectQuery := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE external_id = $1;
	`
	stored, err := scanBankTransaction(r.Pool.QueryRow(ctx, selectQuery, m.ExternalID))
	if err != nil {
		return nil, fmt.Errorf("failed to read back transaction %s: %w", m.ExternalID, err)
	}

	result := mapping.ToDomainBankTransaction(stored)
	return &result, nil
}

// FindTransactionByID retrieves a transaction by its internal id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE transaction_id = $1;
	`
	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	result := mapping.ToDomainBankTransaction(m)
	return &result, nil
}

// ListUnreconciledBetween returns credit-side transactions booked in
// [from, to] that remain open: never claimed by a receipt, or claimed by a
// partial one that left the period short. Oldest first.
func (r *PgxTransactionRepository) ListUnreconciledBetween(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error) {
	qualified := "t." + strings.ReplaceAll(transactionColumns, ", ", ", t.")
	query := `
		SELECT ` + qualified + `
		FROM bank_transactions t
		LEFT JOIN rent_receipts r ON r.receipt_id = t.receipt_id
		WHERE (t.receipt_id IS NULL OR r.partial)
		  AND t.amount >= 0
		  AND t.booked_at BETWEEN $1 AND $2
		ORDER BY t.booked_at;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query unreconciled transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BankTransaction, error) {
		return scanBankTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan unreconciled transactions: %w", err)
	}

	return mapping.ToDomainBankTransactionSlice(modelTxns), nil
}
