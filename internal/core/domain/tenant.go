package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tenant represents one occupant with an active rent obligation.
type Tenant struct {
	TenantID    string          `json:"tenantID"`    // Primary Key (UUID)
	FullName    string          `json:"fullName"`    // As it appears on the tenancy contract
	Phone       string          `json:"phone"`       // E.164, registered for instant payments
	Email       string          `json:"email"`       // Nullable
	MoveInDate  time.Time       `json:"moveInDate"`  // Tenancy start, drives deposit disambiguation
	MonthlyRent decimal.Decimal `json:"monthlyRent"` // Base obligation the ledger is seeded from
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// CanonicalPhone strips everything but digits and drops the "00"
// international-dialing prefix, so "+36 30 123 4567" and "0036301234567"
// style inputs reduce to the same digit string.
func CanonicalPhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	return strings.TrimPrefix(string(digits), "00")
}

// PhoneDigits returns the tenant's registered phone in canonical digit form.
func (t Tenant) PhoneDigits() string {
	return CanonicalPhone(t.Phone)
}
