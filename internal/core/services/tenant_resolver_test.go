package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/roomledger/roomledger_backend/internal/core/services"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	annaID  = "9f3cbe41-2d77-4a1c-9e0f-1b6a8f2d5c3e"
	belaID  = "1742a9cd-55e0-4b8a-bd61-0c2f9e8a7b6d"
	annaTel = "+36301234567"
	belaTel = "+36709876543"
)

func instantPayload() json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"proprietaryCode": "INSTANT_CREDIT"})
	return raw
}

func testTenants() []domain.Tenant {
	return []domain.Tenant{
		{
			TenantID:    annaID,
			FullName:    "Kovacs Anna",
			Phone:       annaTel,
			MonthlyRent: decimal.NewFromInt(6303),
			IsActive:    true,
		},
		{
			TenantID:    belaID,
			FullName:    "Nagy Bela",
			Phone:       belaTel,
			MonthlyRent: decimal.NewFromInt(7100),
			IsActive:    true,
		},
	}
}

func incomingTxn(amount int64, description, counterparty string) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    "txn-" + description,
		ExternalID:       "ext-" + description,
		BookedAt:         time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromInt(amount),
		Currency:         "HUF",
		Description:      description,
		CounterpartyName: counterparty,
		RawPayload:       instantPayload(),
	}
}

func TestTenantResolver_ReferenceCodeTier(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	// A truncated tenant-id prefix in the description wins even when amount
	// and counterparty point nowhere.
	txn := incomingTxn(500, "rent REF 9f3cbe41-2d77", "Somebody Else")
	tenant, method := resolver.Resolve(context.Background(), txn, testTenants())

	require.NotNil(t, tenant)
	assert.Equal(t, annaID, tenant.TenantID)
	assert.Equal(t, domain.MatchByReferenceCode, method)
}

func TestTenantResolver_ReferenceCodeBeatsPhone(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	// Bela's reference code but Anna's phone: the reference wins.
	txn := incomingTxn(7100, "1742a9cd-55e0 From: "+annaTel, "Kovacs Anna")
	tenant, method := resolver.Resolve(context.Background(), txn, testTenants())

	require.NotNil(t, tenant)
	assert.Equal(t, belaID, tenant.TenantID)
	assert.Equal(t, domain.MatchByReferenceCode, method)
}

func TestTenantResolver_PhoneTier(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	txn := incomingTxn(123, "october rent From: "+belaTel, "")
	tenant, method := resolver.Resolve(context.Background(), txn, testTenants())

	require.NotNil(t, tenant)
	assert.Equal(t, belaID, tenant.TenantID)
	assert.Equal(t, domain.MatchByPhone, method)
}

func TestTenantResolver_PhoneRequiresExactDigits(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	txn := incomingTxn(6303, "From: +36301234568", "")
	tenant, _ := resolver.Resolve(context.Background(), txn, testTenants())
	assert.Nil(t, tenant)
}

func TestTenantResolver_PhoneMatchesInternationalPrefixSpelling(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	// The registered number uses the "00" dialing prefix, the payment
	// description the "+" form. Both reduce to the same canonical digits.
	tenants := testTenants()
	tenants[0].Phone = "0036 30 123 4567"

	txn := incomingTxn(123, "october rent From: "+annaTel, "")
	tenant, method := resolver.Resolve(context.Background(), txn, tenants)

	require.NotNil(t, tenant)
	assert.Equal(t, annaID, tenant.TenantID)
	assert.Equal(t, domain.MatchByPhone, method)
}

func TestTenantResolver_NameAmountTier(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())

	tests := []struct {
		name         string
		amount       int64
		counterparty string
		wantTenant   string
	}{
		{
			name:         "exact name and rent amount",
			amount:       6303,
			counterparty: "Kovacs Anna",
			wantTenant:   annaID,
		},
		{
			name:         "uppercase with middle initial",
			amount:       6303,
			counterparty: "KOVACS A.",
			wantTenant:   annaID,
		},
		{
			name:         "reordered tokens",
			amount:       7100,
			counterparty: "Bela Nagy",
			wantTenant:   belaID,
		},
		{
			name:         "rent amount off by one within tolerance",
			amount:       6304,
			counterparty: "Kovacs Anna",
			wantTenant:   annaID,
		},
		{
			name:         "name matches but amount does not",
			amount:       3000,
			counterparty: "Kovacs Anna",
			wantTenant:   "",
		},
		{
			name:         "amount matches but name is unrelated",
			amount:       6303,
			counterparty: "Ismeretlen Feladó",
			wantTenant:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := incomingTxn(tt.amount, "no useful description", tt.counterparty)
			tenant, method := resolver.Resolve(context.Background(), txn, testTenants())
			if tt.wantTenant == "" {
				assert.Nil(t, tenant)
				return
			}
			require.NotNil(t, tenant)
			assert.Equal(t, tt.wantTenant, tenant.TenantID)
			assert.Equal(t, domain.MatchByNameAmount, method)
		})
	}
}

func TestTenantResolver_AttributedTo(t *testing.T) {
	resolver := services.NewTenantResolver(config.DefaultReconciliationConfig())
	anna := testTenants()[0]

	// Name alone is enough for attribution even when the amount matches
	// nothing — that is the whole point for split payments.
	partial := incomingTxn(3000, "part one", "Kovacs Anna")
	assert.True(t, resolver.AttributedTo(partial, anna))

	byPhone := incomingTxn(3303, "From: "+annaTel, "")
	assert.True(t, resolver.AttributedTo(byPhone, anna))

	stranger := incomingTxn(3000, "no markers", "Teljesen Mas Nev")
	assert.False(t, resolver.AttributedTo(stranger, anna))
}
