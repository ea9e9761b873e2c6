package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is what the
// handlers are wired against.
type ServiceContainer struct {
	Ingest         IngestSvcFacade
	Reconciliation ReconciliationSvcFacade
	Aggregation    AggregationSvcFacade
	Resolver       TenantResolverFacade
	Tenant         TenantSvcFacade
}
