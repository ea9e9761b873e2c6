package services

import (
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
)

// NewContainer creates the service container with properly initialized
// dependencies: resolver first, then the workflow, then the aggregator that
// feeds groups back into the workflow.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	notifier portssvc.Notifier,
	broadcaster portssvc.ChangeBroadcaster,
	cfg config.ReconciliationConfig,
) *portssvc.ServiceContainer {
	resolver := NewTenantResolver(cfg)

	reconciliation := NewReconciliationService(
		repos.TransactionRepo,
		repos.TenantRepo,
		repos.LedgerRepo,
		repos.ReceiptRepo,
		resolver,
		notifier,
		broadcaster,
		cfg,
	)

	aggregation := NewAggregationService(
		repos.TransactionRepo,
		repos.TenantRepo,
		repos.LedgerRepo,
		resolver,
		reconciliation,
		cfg,
	)

	return &portssvc.ServiceContainer{
		Ingest:         NewIngestService(repos.TransactionRepo),
		Reconciliation: reconciliation,
		Aggregation:    aggregation,
		Resolver:       resolver,
		Tenant:         NewTenantService(repos.TenantRepo, repos.LedgerRepo, repos.ReceiptRepo),
	}
}
