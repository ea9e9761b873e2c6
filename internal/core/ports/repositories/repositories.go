package repositories

// RepositoryProvider bundles the concrete repositories so wiring code can
// pass them around as one unit.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryFacade
	TenantRepo      TenantRepositoryFacade
	LedgerRepo      LedgerRepositoryFacade
	ReceiptRepo     ReceiptRepositoryFacade
}
