package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// IngestTransactionItem is one bank feed entry in an ingest batch.
type IngestTransactionItem struct {
	ExternalID       string          `json:"externalID" binding:"required"`
	AccountID        string          `json:"accountID"`
	BookedAt         time.Time       `json:"bookedAt" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Currency         string          `json:"currency" binding:"required,uppercase,len=3"`
	Description      string          `json:"description"`
	CounterpartyName string          `json:"counterpartyName"`
	RawPayload       json.RawMessage `json:"rawPayload"`
}

// IngestTransactionsRequest is the batch body for the feed ingest endpoint.
type IngestTransactionsRequest struct {
	Transactions []IngestTransactionItem `json:"transactions" binding:"required,min=1,dive"`
}

// ToDomainTransactions converts the batch into domain records.
func (r IngestTransactionsRequest) ToDomainTransactions() []domain.BankTransaction {
	txns := make([]domain.BankTransaction, len(r.Transactions))
	for i, item := range r.Transactions {
		txns[i] = domain.BankTransaction{
			ExternalID:       item.ExternalID,
			AccountID:        item.AccountID,
			BookedAt:         item.BookedAt,
			Amount:           item.Amount,
			Currency:         item.Currency,
			Description:      item.Description,
			CounterpartyName: item.CounterpartyName,
			RawPayload:       item.RawPayload,
		}
	}
	return txns
}

// TransactionResponse defines the data returned for a bank transaction.
type TransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	ExternalID       string          `json:"externalID"`
	AccountID        string          `json:"accountID"`
	BookedAt         time.Time       `json:"bookedAt"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Description      string          `json:"description"`
	CounterpartyName string          `json:"counterpartyName"`
	ReceiptID        *string         `json:"receiptID,omitempty"`
}

// ToTransactionResponse converts a domain BankTransaction to its response DTO.
func ToTransactionResponse(txn domain.BankTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		ExternalID:       txn.ExternalID,
		AccountID:        txn.AccountID,
		BookedAt:         txn.BookedAt,
		Amount:           txn.Amount,
		Currency:         txn.Currency,
		Description:      txn.Description,
		CounterpartyName: txn.CounterpartyName,
		ReceiptID:        txn.ReceiptID,
	}
}

// ToListTransactionResponse converts a slice of domain transactions.
func ToListTransactionResponse(txns []domain.BankTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(txn)
	}
	return res
}
