package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// ReconcileTransactionRequest is the optional body for the reconcile
// endpoint. SameDayTotal, when present, is evaluated against the payment
// threshold in place of the transaction's own amount.
type ReconcileTransactionRequest struct {
	SameDayTotal *decimal.Decimal `json:"sameDayTotal"`
}

// ReceiptResponse defines the data returned for a rent receipt.
type ReceiptResponse struct {
	ReceiptID     string          `json:"receiptID"`
	TenantID      string          `json:"tenantID"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paidAt"`
	MatchMethod   string          `json:"matchMethod"`
	TransactionID *string         `json:"transactionID,omitempty"`
	Partial       bool            `json:"partial"`
}

// ToReceiptResponse converts a domain RentReceipt to its response DTO.
func ToReceiptResponse(receipt domain.RentReceipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:     receipt.ReceiptID,
		TenantID:      receipt.TenantID,
		Period:        receipt.Period.String(),
		Amount:        receipt.Amount,
		PaidAt:        receipt.PaidAt,
		MatchMethod:   string(receipt.MatchMethod),
		TransactionID: receipt.TransactionID,
		Partial:       receipt.Partial,
	}
}

// ToListReceiptResponse converts a slice of domain receipts.
func ToListReceiptResponse(receipts []domain.RentReceipt) []ReceiptResponse {
	res := make([]ReceiptResponse, len(receipts))
	for i, receipt := range receipts {
		res[i] = ToReceiptResponse(receipt)
	}
	return res
}

// FindGroupsRequest selects the period the aggregator should inspect.
// Period defaults to the current month when empty.
type FindGroupsRequest struct {
	Period string `form:"period" json:"period"`
}

// ApplyGroupRequest asks the aggregator to re-find and apply the winning
// group for a period.
type ApplyGroupRequest struct {
	Period string `json:"period" binding:"required"`
}

// PaymentGroupResponse defines the data returned for an aggregated group.
type PaymentGroupResponse struct {
	TenantID     string                `json:"tenantID"`
	Period       string                `json:"period"`
	Total        decimal.Decimal       `json:"total"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToPaymentGroupResponse converts a domain PaymentGroup to its response DTO.
func ToPaymentGroupResponse(group domain.PaymentGroup) PaymentGroupResponse {
	return PaymentGroupResponse{
		TenantID:     group.TenantID,
		Period:       group.Period.String(),
		Total:        group.Total,
		Transactions: ToListTransactionResponse(group.Transactions),
	}
}

// ToListPaymentGroupResponse converts a slice of domain groups.
func ToListPaymentGroupResponse(groups []domain.PaymentGroup) []PaymentGroupResponse {
	res := make([]PaymentGroupResponse, len(groups))
	for i, group := range groups {
		res[i] = ToPaymentGroupResponse(group)
	}
	return res
}
