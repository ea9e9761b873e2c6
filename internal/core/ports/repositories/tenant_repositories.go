package repositories

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// TenantRepositoryFacade defines persistence operations for tenants.
type TenantRepositoryFacade interface {
	// FindTenantByID retrieves a tenant by id. Returns apperrors.ErrNotFound
	// when absent.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListActiveTenants returns all tenants with an active tenancy.
	ListActiveTenants(ctx context.Context) ([]domain.Tenant, error)
}
