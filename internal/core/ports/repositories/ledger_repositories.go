package repositories

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// LedgerRepositoryFacade defines persistence operations for rent ledger
// entries. The paid-amount advance itself happens inside the receipt
// repository's settle path so it shares the same row lock as the receipt
// insert; this facade is read-only plus seeding.
type LedgerRepositoryFacade interface {
	// FindEntry retrieves the ledger entry for a tenant and period.
	// Returns apperrors.ErrNotFound when no obligation is recorded.
	FindEntry(ctx context.Context, tenantID string, period domain.Period) (*domain.LedgerEntry, error)

	// ListEntriesByTenant returns all entries for a tenant, newest period first.
	ListEntriesByTenant(ctx context.Context, tenantID string) ([]domain.LedgerEntry, error)

	// SaveEntry records a new obligation for a tenant and period. Returns
	// apperrors.ErrDuplicate when one already exists.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error
}
