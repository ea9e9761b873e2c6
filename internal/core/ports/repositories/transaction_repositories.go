package repositories

import (
	"context"
	"time"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// TransactionRepositoryFacade defines persistence operations for bank
// transactions. Upsert keys on the provider-assigned external id so that
// re-ingesting the same feed entry never creates a duplicate record.
type TransactionRepositoryFacade interface {
	// UpsertTransaction inserts the transaction or, when a record with the
	// same external id already exists, returns the stored record untouched.
	UpsertTransaction(ctx context.Context, txn domain.BankTransaction) (*domain.BankTransaction, error)

	// FindTransactionByID retrieves a transaction by internal id.
	// Returns apperrors.ErrNotFound when absent.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// ListUnreconciledBetween returns non-negative-amount transactions booked
	// in [from, to] that are not fully reconciled: unclaimed, or claimed by a
	// partial receipt. Ordered by booked time ascending.
	ListUnreconciledBetween(ctx context.Context, from, to time.Time) ([]domain.BankTransaction, error)
}
