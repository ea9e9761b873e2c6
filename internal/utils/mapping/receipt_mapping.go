package mapping

import (
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/roomledger/roomledger_backend/internal/models"
)

// ToModelReceipt converts a domain RentReceipt to its model.
func ToModelReceipt(d domain.RentReceipt) models.RentReceipt {
	return models.RentReceipt{
		ReceiptID:     d.ReceiptID,
		TenantID:      d.TenantID,
		Period:        d.Period.String(),
		Amount:        d.Amount,
		PaidAt:        d.PaidAt,
		MatchMethod:   string(d.MatchMethod),
		TransactionID: d.TransactionID,
		Partial:       d.Partial,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReceipt converts a model RentReceipt to its domain form.
func ToDomainReceipt(m models.RentReceipt) domain.RentReceipt {
	return domain.RentReceipt{
		ReceiptID:     m.ReceiptID,
		TenantID:      m.TenantID,
		Period:        domain.Period(m.Period),
		Amount:        m.Amount,
		PaidAt:        m.PaidAt,
		MatchMethod:   domain.MatchMethod(m.MatchMethod),
		TransactionID: m.TransactionID,
		Partial:       m.Partial,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReceiptSlice converts a slice of model receipts.
func ToDomainReceiptSlice(ms []models.RentReceipt) []domain.RentReceipt {
	ds := make([]domain.RentReceipt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReceipt(m)
	}
	return ds
}
