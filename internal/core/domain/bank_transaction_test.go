package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func payload(code string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"proprietaryCode": code})
	return raw
}

func TestBankTransaction_Direction(t *testing.T) {
	tests := []struct {
		name string
		txn  domain.BankTransaction
		want domain.Direction
	}{
		{
			name: "incoming instant credit",
			txn: domain.BankTransaction{
				Amount:     decimal.NewFromInt(6303),
				RawPayload: payload("INSTANT_CREDIT"),
			},
			want: domain.DirectionIncoming,
		},
		{
			name: "outgoing instant debit",
			txn: domain.BankTransaction{
				Amount:     decimal.NewFromInt(1200),
				RawPayload: payload("INSTANT_DEBIT"),
			},
			want: domain.DirectionOutgoing,
		},
		{
			name: "negative amount wins over credit label",
			txn: domain.BankTransaction{
				Amount:     decimal.NewFromInt(-500),
				RawPayload: payload("INSTANT_CREDIT"),
			},
			want: domain.DirectionOutgoing,
		},
		{
			name: "plain transfer is neither",
			txn: domain.BankTransaction{
				Amount:     decimal.NewFromInt(6303),
				RawPayload: payload("SEPA_TRANSFER"),
			},
			want: domain.DirectionUnknown,
		},
		{
			name: "missing payload",
			txn: domain.BankTransaction{
				Amount: decimal.NewFromInt(6303),
			},
			want: domain.DirectionUnknown,
		},
		{
			name: "malformed payload",
			txn: domain.BankTransaction{
				Amount:     decimal.NewFromInt(6303),
				RawPayload: json.RawMessage(`{"proprietaryCode":`),
			},
			want: domain.DirectionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.Direction())
		})
	}
}

func TestBankTransaction_IsInstantPayment(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "instant credit", code: "INSTANT_CREDIT", want: true},
		{name: "instant debit still instant", code: "instant_debit", want: true},
		{name: "lowercase decorated label", code: "scheme/instant-credit/v2", want: true},
		{name: "bank transfer", code: "SEPA_TRANSFER", want: false},
		{name: "empty", code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.BankTransaction{RawPayload: payload(tt.code)}
			assert.Equal(t, tt.want, txn.IsInstantPayment())
		})
	}
}

func TestBankTransaction_ExtractPhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantPhone   string
		wantOK      bool
	}{
		{
			name:        "marker with colon",
			description: "Rent October From: +36301234567",
			wantPhone:   "+36301234567",
			wantOK:      true,
		},
		{
			name:        "lowercase marker no colon",
			description: "instant payment from +36709876543 thanks",
			wantPhone:   "+36709876543",
			wantOK:      true,
		},
		{
			name:        "no marker",
			description: "call me at +36301234567",
			wantOK:      false,
		},
		{
			name:        "marker without number",
			description: "From: Kovacs Anna",
			wantOK:      false,
		},
		{
			name:        "empty description",
			description: "",
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.BankTransaction{Description: tt.description}
			phone, ok := txn.ExtractPhoneNumber()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPhone, phone)
			}
		})
	}
}

func TestBankTransaction_MatchesAmount(t *testing.T) {
	txn := domain.BankTransaction{Amount: decimal.NewFromFloat(6303.50)}

	assert.True(t, txn.MatchesAmount(decimal.NewFromInt(6303), decimal.NewFromInt(1)))
	assert.True(t, txn.MatchesAmount(decimal.NewFromFloat(6304.50), decimal.NewFromInt(1)))
	assert.False(t, txn.MatchesAmount(decimal.NewFromInt(6300), decimal.NewFromInt(1)))

	// Sign is ignored on both sides.
	negative := domain.BankTransaction{Amount: decimal.NewFromInt(-6303)}
	assert.True(t, negative.MatchesAmount(decimal.NewFromInt(6303), decimal.NewFromInt(1)))
}

func TestBankTransaction_HasReferenceCodeFor(t *testing.T) {
	const tenantID = "9f3cbe41-2d77-4a1c-9e0f-1b6a8f2d5c3e"

	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{name: "full id", description: "rent ref " + tenantID, want: true},
		{name: "truncated prefix", description: "REF 9F3CBE41-2D7 october", want: true},
		{name: "truncated suffix", description: "code 8f2d5c3e attached", want: true},
		{name: "too short fragment", description: "ref 9f3cbe4", want: false},
		{name: "unrelated text", description: "monthly rent, thanks", want: false},
		{name: "mid-id fragment does not count", description: "ref 2d77-4a1c", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.BankTransaction{Description: tt.description}
			assert.Equal(t, tt.want, txn.HasReferenceCodeFor(tenantID))
		})
	}
}

func TestBankTransaction_Validate(t *testing.T) {
	valid := domain.BankTransaction{
		TransactionID: "txn-1",
		ExternalID:    "prov-1",
		BookedAt:      time.Date(2025, 10, 16, 9, 30, 0, 0, time.UTC),
		Currency:      "HUF",
	}
	assert.NoError(t, valid.Validate())

	missingExternal := valid
	missingExternal.ExternalID = ""
	assert.Error(t, missingExternal.Validate())

	missingBooked := valid
	missingBooked.BookedAt = time.Time{}
	assert.Error(t, missingBooked.Validate())
}
