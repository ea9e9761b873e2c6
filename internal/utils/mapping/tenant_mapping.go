package mapping

import (
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/roomledger/roomledger_backend/internal/models"
)

// ToModelTenant converts a domain Tenant to a model Tenant.
func ToModelTenant(d domain.Tenant) models.Tenant {
	var email *string
	if d.Email != "" {
		e := d.Email
		email = &e
	}
	return models.Tenant{
		TenantID:    d.TenantID,
		FullName:    d.FullName,
		Phone:       d.Phone,
		Email:       email,
		MoveInDate:  d.MoveInDate,
		MonthlyRent: d.MonthlyRent,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to a domain Tenant.
func ToDomainTenant(m models.Tenant) domain.Tenant {
	email := ""
	if m.Email != nil {
		email = *m.Email
	}
	return domain.Tenant{
		TenantID:    m.TenantID,
		FullName:    m.FullName,
		Phone:       m.Phone,
		Email:       email,
		MoveInDate:  m.MoveInDate,
		MonthlyRent: m.MonthlyRent,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTenantSlice converts a slice of model Tenants.
func ToDomainTenantSlice(ms []models.Tenant) []domain.Tenant {
	ds := make([]domain.Tenant, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTenant(m)
	}
	return ds
}
