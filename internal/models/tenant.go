package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant represents one occupant row in the tenants table.
type Tenant struct {
	TenantID    string          `json:"tenantID"` // Primary Key (UUID)
	FullName    string          `json:"fullName"`
	Phone       string          `json:"phone"` // E.164
	Email       *string         `json:"email"` // Nullable
	MoveInDate  time.Time       `json:"moveInDate"`
	MonthlyRent decimal.Decimal `json:"monthlyRent"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}
