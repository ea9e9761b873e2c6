package pgsql

import (
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		TenantRepo:      newPgxTenantRepository(dbPool),
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		ReceiptRepo:     newPgxReceiptRepository(dbPool),
	}
}
