package services

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// TenantSvcFacade serves the admin dashboard reads: tenants, their ledger
// state and their receipt trail.
type TenantSvcFacade interface {
	// ListTenants returns all active tenants.
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// GetTenant retrieves one tenant. Returns apperrors.ErrNotFound when
	// absent.
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListReceipts returns the tenant's receipts, newest first.
	ListReceipts(ctx context.Context, tenantID string) ([]domain.RentReceipt, error)

	// ListLedgerEntries returns the tenant's ledger entries, newest period
	// first.
	ListLedgerEntries(ctx context.Context, tenantID string) ([]domain.LedgerEntry, error)
}
