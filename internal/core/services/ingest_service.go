package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portsrepo "github.com/roomledger/roomledger_backend/internal/core/ports/repositories"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/middleware"
)

const ingestActor = "system:ingest"

type ingestService struct {
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewIngestService creates the feed ingestion service.
func NewIngestService(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.IngestSvcFacade {
	return &ingestService{txnRepo: txnRepo}
}

var _ portssvc.IngestSvcFacade = (*ingestService)(nil)

// IngestTransactions upserts each feed entry keyed on its external id. New
// records get an internal id and audit trail; replayed records come back as
// stored, untouched.
func (s *ingestService) IngestTransactions(ctx context.Context, txns []domain.BankTransaction) ([]domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored := make([]domain.BankTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.TransactionID == "" {
			txn.TransactionID = uuid.NewString()
		}
		now := time.Now().UTC()
		txn.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ingestActor,
			LastUpdatedAt: now,
			LastUpdatedBy: ingestActor,
		}
		if err := txn.Validate(); err != nil {
			return stored, fmt.Errorf("%w: transaction %s: %s", apperrors.ErrValidation, txn.ExternalID, err)
		}

		result, err := s.txnRepo.UpsertTransaction(ctx, txn)
		if err != nil {
			return stored, fmt.Errorf("failed to ingest transaction %s: %w", txn.ExternalID, err)
		}
		if result.TransactionID != txn.TransactionID {
			logger.Debug("Feed entry replayed, stored record returned",
				slog.String("external_id", txn.ExternalID),
				slog.String("transaction_id", result.TransactionID),
			)
		}
		stored = append(stored, *result)
	}

	logger.Info("Feed batch ingested", slog.Int("count", len(stored)))
	return stored, nil
}
