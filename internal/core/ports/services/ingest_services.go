package services

import (
	"context"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// IngestSvcFacade persists bank feed entries. Ingestion is idempotent on the
// provider-assigned external id: replaying a feed page never duplicates a
// record and never disturbs reconciliation state already attached to it.
type IngestSvcFacade interface {
	// IngestTransactions upserts the batch and returns the stored records in
	// input order, including any receipt back-references from earlier runs.
	IngestTransactions(ctx context.Context, txns []domain.BankTransaction) ([]domain.BankTransaction, error)
}
