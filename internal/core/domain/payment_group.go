package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentGroup is a set of two or more transactions from one tenant whose
// combined amount satisfies a period's obligation within tolerance. Each
// member still receives its own receipt; the group total is what the
// reconciliation threshold is evaluated against.
type PaymentGroup struct {
	TenantID     string            `json:"tenantID"`
	Period       Period            `json:"period"`
	Transactions []BankTransaction `json:"transactions"`
	Total        decimal.Decimal   `json:"total"`
}

// EarliestAt returns the booked time of the oldest member.
func (g PaymentGroup) EarliestAt() time.Time {
	var earliest time.Time
	for _, txn := range g.Transactions {
		if earliest.IsZero() || txn.BookedAt.Before(earliest) {
			earliest = txn.BookedAt
		}
	}
	return earliest
}

// LatestAt returns the booked time of the newest member.
func (g PaymentGroup) LatestAt() time.Time {
	var latest time.Time
	for _, txn := range g.Transactions {
		if txn.BookedAt.After(latest) {
			latest = txn.BookedAt
		}
	}
	return latest
}

// SpanDays returns the whole days between the earliest and latest member.
func (g PaymentGroup) SpanDays() int {
	if len(g.Transactions) == 0 {
		return 0
	}
	return int(g.LatestAt().Sub(g.EarliestAt()).Hours() / 24)
}
