package mapping

import (
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/roomledger/roomledger_backend/internal/models"
)

// ToModelBankTransaction converts a domain BankTransaction to its model.
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:    d.TransactionID,
		ExternalID:       d.ExternalID,
		AccountID:        d.AccountID,
		BookedAt:         d.BookedAt,
		Amount:           d.Amount,
		Currency:         d.Currency,
		Description:      d.Description,
		CounterpartyName: d.CounterpartyName,
		RawPayload:       d.RawPayload,
		ReceiptID:        d.ReceiptID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model BankTransaction to its domain form.
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    m.TransactionID,
		ExternalID:       m.ExternalID,
		AccountID:        m.AccountID,
		BookedAt:         m.BookedAt,
		Amount:           m.Amount,
		Currency:         m.Currency,
		Description:      m.Description,
		CounterpartyName: m.CounterpartyName,
		RawPayload:       m.RawPayload,
		ReceiptID:        m.ReceiptID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankTransactionSlice converts a slice of model BankTransactions.
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}
