package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies which way money moved in a bank transaction.
type Direction string

const (
	DirectionIncoming Direction = "INCOMING"
	DirectionOutgoing Direction = "OUTGOING"
	DirectionUnknown  Direction = "UNKNOWN"
)

// Channel vocabulary used by the payment provider in its proprietary code
// field. Matching is case-insensitive substring matching because providers
// decorate these labels with scheme suffixes.
const (
	channelMarkerInstant  = "instant"
	channelMarkerReceived = "credit"
	channelMarkerSent     = "debit"
)

// phonePattern finds an E.164 token after the provider's counterparty marker
// in the free-text description, e.g. "... From: +36301234567 ...".
var phonePattern = regexp.MustCompile(`(?i)(?:from|phone|msisdn)[:.]?\s*(\+\d{7,14})`)

// minReferenceCodeLength is the shortest tenant-id fragment accepted as a
// payment reference. Provider UIs truncate references at different lengths,
// so anything at least this long that lines up with the start or the end of
// the tenant id counts.
const minReferenceCodeLength = 8

// BankTransaction is the normalized view of one raw payment-provider entry.
// It is created once by the bank sync job and immutable afterwards, except
// for ReceiptID which is set exactly once when the transaction is consumed
// by reconciliation.
type BankTransaction struct {
	TransactionID    string          `json:"transactionID"` // Primary Key (UUID)
	ExternalID       string          `json:"externalID"`    // Provider-assigned, globally unique
	AccountID        string          `json:"accountID"`     // Receiving bank account
	BookedAt         time.Time       `json:"bookedAt"`
	Amount           decimal.Decimal `json:"amount"` // Signed; negative means money left the account
	Currency         string          `json:"currency"`
	Description      string          `json:"description"`      // Free text, may carry reference code and phone
	CounterpartyName string          `json:"counterpartyName"` // Display name as reported by the provider
	RawPayload       json.RawMessage `json:"rawPayload"`       // Opaque provider entry, used to recover the channel label
	ReceiptID        *string         `json:"receiptID"`        // Back-reference, set once on reconciliation
	AuditFields
}

// rawChannelEnvelope is the slice of the provider payload we care about.
type rawChannelEnvelope struct {
	ProprietaryCode string `json:"proprietaryCode"`
}

// ChannelLabel recovers the provider's channel label from the raw payload.
// Returns an empty string when the payload is absent or malformed.
func (t BankTransaction) ChannelLabel() string {
	if len(t.RawPayload) == 0 {
		return ""
	}
	var env rawChannelEnvelope
	if err := json.Unmarshal(t.RawPayload, &env); err != nil {
		return ""
	}
	return env.ProprietaryCode
}

// IsInstantPayment reports whether the channel label belongs to the instant
// consumer-payment scheme, independent of direction.
func (t BankTransaction) IsInstantPayment() bool {
	return strings.Contains(strings.ToLower(t.ChannelLabel()), channelMarkerInstant)
}

// Direction infers the money flow from the channel label and the amount sign.
// Outgoing transactions are never eligible for rent matching.
func (t BankTransaction) Direction() Direction {
	label := strings.ToLower(t.ChannelLabel())
	if strings.Contains(label, channelMarkerSent) || t.Amount.IsNegative() {
		return DirectionOutgoing
	}
	if t.IsInstantPayment() && strings.Contains(label, channelMarkerReceived) {
		return DirectionIncoming
	}
	return DirectionUnknown
}

// ExtractPhoneNumber parses the counterparty phone number out of the
// description. The second return value is false when no token is present.
func (t BankTransaction) ExtractPhoneNumber() (string, bool) {
	m := phonePattern.FindStringSubmatch(t.Description)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchesAmount reports whether the transaction amount equals the expected
// amount within an absolute tolerance. This guards against rounding noise
// only; aggregation uses its own, wider tolerance.
func (t BankTransaction) MatchesAmount(expected decimal.Decimal, tolerance decimal.Decimal) bool {
	diff := t.Amount.Abs().Sub(expected.Abs()).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// HasReferenceCodeFor reports whether the description carries a payment
// reference for the given tenant: any substring of at least
// minReferenceCodeLength characters that is a prefix or a suffix of the
// tenant id. Truncated references from different provider UIs still match.
func (t BankTransaction) HasReferenceCodeFor(tenantID string) bool {
	id := strings.ToLower(tenantID)
	if len(id) < minReferenceCodeLength {
		return false
	}
	desc := strings.ToLower(t.Description)
	for l := len(id); l >= minReferenceCodeLength; l-- {
		if strings.Contains(desc, id[:l]) || strings.Contains(desc, id[len(id)-l:]) {
			return true
		}
	}
	return false
}

// IsReconciled reports whether the transaction has already been consumed by
// a receipt.
func (t BankTransaction) IsReconciled() bool {
	return t.ReceiptID != nil
}

// Validate checks the fields reconciliation cannot work without.
func (t BankTransaction) Validate() error {
	if t.TransactionID == "" {
		return errMissingField("transactionID")
	}
	if t.ExternalID == "" {
		return errMissingField("externalID")
	}
	if t.BookedAt.IsZero() {
		return errMissingField("bookedAt")
	}
	if t.Currency == "" {
		return errMissingField("currency")
	}
	return nil
}
