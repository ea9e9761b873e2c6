package mapping

import (
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/roomledger/roomledger_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to its model.
func ToModelLedgerEntry(d domain.LedgerEntry) models.RentLedgerEntry {
	return models.RentLedgerEntry{
		LedgerID:    d.LedgerID,
		TenantID:    d.TenantID,
		Period:      d.Period.String(),
		AmountDue:   d.AmountDue,
		AmountPaid:  d.AmountPaid,
		PaidAt:      d.PaidAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model RentLedgerEntry to its domain form.
func ToDomainLedgerEntry(m models.RentLedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerID:    m.LedgerID,
		TenantID:    m.TenantID,
		Period:      domain.Period(m.Period),
		AmountDue:   m.AmountDue,
		AmountPaid:  m.AmountPaid,
		PaidAt:      m.PaidAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries.
func ToDomainLedgerEntrySlice(ms []models.RentLedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
