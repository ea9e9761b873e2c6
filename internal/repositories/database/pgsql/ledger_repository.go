package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	"github.com/roomledger/roomledger_backend/internal/models"
	"github.com/roomledger/roomledger_backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for rent ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `ledger_id, tenant_id, period, amount_due, amount_paid, paid_at, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (models.RentLedgerEntry, error) {
	var m models.RentLedgerEntry
	err := row.Scan(
		&m.LedgerID,
		&m.TenantID,
		&m.Period,
		&m.AmountDue,
		&m.AmountPaid,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntry retrieves the ledger entry for a tenant and period.
func (r *PgxLedgerRepository) FindEntry(ctx context.Context, tenantID string, period domain.Period) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM rent_ledger
		WHERE tenant_id = $1 AND period = $2;
	`
	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, tenantID, period.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry %s/%s: %w", tenantID, period, err)
	}

	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntriesByTenant returns all entries for a tenant, newest period first.
func (r *PgxLedgerRepository) ListEntriesByTenant(ctx context.Context, tenantID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM rent_ledger
		WHERE tenant_id = $1
		ORDER BY period DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelEntries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RentLedgerEntry, error) {
		return scanLedgerEntry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nil
}

// SaveEntry records a new obligation for a tenant and period.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO rent_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, period) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.TenantID,
		m.Period,
		m.AmountDue,
		m.AmountPaid,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger entry %s/%s: %w", m.TenantID, m.Period, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry for %s/%s already exists", apperrors.ErrDuplicate, m.TenantID, m.Period)
	}
	return nil
}
