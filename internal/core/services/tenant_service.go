package services

import (
	"context"
	"fmt"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
)

type tenantService struct {
	tenantRepo  portsrepo.TenantRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	receiptRepo portsrepo.ReceiptRepositoryFacade
}

// NewTenantService creates the dashboard read service.
func NewTenantService(
	tenantRepo portsrepo.TenantRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	receiptRepo portsrepo.ReceiptRepositoryFacade,
) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:  tenantRepo,
		ledgerRepo:  ledgerRepo,
		receiptRepo: receiptRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

func (s *tenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListActiveTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (s *tenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantRepo.FindTenantByID(ctx, tenantID)
}

func (s *tenantService) ListReceipts(ctx context.Context, tenantID string) ([]domain.RentReceipt, error) {
	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.receiptRepo.FindReceiptsByTenant(ctx, tenantID)
}

func (s *tenantService) ListLedgerEntries(ctx context.Context, tenantID string) ([]domain.LedgerEntry, error) {
	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListEntriesByTenant(ctx, tenantID)
}
