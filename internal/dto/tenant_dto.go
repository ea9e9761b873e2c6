package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
)

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID    string          `json:"tenantID"`
	FullName    string          `json:"fullName"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email,omitempty"`
	MoveInDate  time.Time       `json:"moveInDate"`
	MonthlyRent decimal.Decimal `json:"monthlyRent"`
	IsActive    bool            `json:"isActive"`
}

// ToTenantResponse converts a domain Tenant to its response DTO.
func ToTenantResponse(tenant domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:    tenant.TenantID,
		FullName:    tenant.FullName,
		Phone:       tenant.Phone,
		Email:       tenant.Email,
		MoveInDate:  tenant.MoveInDate,
		MonthlyRent: tenant.MonthlyRent,
		IsActive:    tenant.IsActive,
	}
}

// ToListTenantResponse converts a slice of domain tenants.
func ToListTenantResponse(tenants []domain.Tenant) []TenantResponse {
	res := make([]TenantResponse, len(tenants))
	for i, tenant := range tenants {
		res[i] = ToTenantResponse(tenant)
	}
	return res
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	LedgerID   string          `json:"ledgerID"`
	TenantID   string          `json:"tenantID"`
	Period     string          `json:"period"`
	AmountDue  decimal.Decimal `json:"amountDue"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry to its response DTO.
func ToLedgerEntryResponse(entry domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerID:   entry.LedgerID,
		TenantID:   entry.TenantID,
		Period:     entry.Period.String(),
		AmountDue:  entry.AmountDue,
		AmountPaid: entry.AmountPaid,
		PaidAt:     entry.PaidAt,
	}
}

// ToListLedgerEntryResponse converts a slice of domain entries.
func ToListLedgerEntryResponse(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToLedgerEntryResponse(entry)
	}
	return res
}
