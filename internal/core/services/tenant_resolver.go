package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/middleware"
	"github.com/roomledger/roomledger_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// minNameSimilarity is the edit-distance similarity (relative to the longer
// string) below which two names are not considered the same person.
const minNameSimilarity = 0.70

// matchStrategy is one tier of evidence linking a transaction to a tenant.
// Strategies are tried in declaration order; the first success wins.
type matchStrategy interface {
	method() domain.MatchMethod
	matches(txn domain.BankTransaction, tenant domain.Tenant) bool
}

// referenceCodeStrategy matches on an explicit payment reference carrying a
// (possibly truncated) tenant id. Strongest signal; exempt from the payment
// threshold downstream.
type referenceCodeStrategy struct{}

func (referenceCodeStrategy) method() domain.MatchMethod { return domain.MatchByReferenceCode }

func (referenceCodeStrategy) matches(txn domain.BankTransaction, tenant domain.Tenant) bool {
	return txn.HasReferenceCodeFor(tenant.TenantID)
}

// phoneStrategy matches the phone number embedded in the transaction
// description against the tenant's registered phone, canonical digits only,
// exact.
type phoneStrategy struct{}

func (phoneStrategy) method() domain.MatchMethod { return domain.MatchByPhone }

func (phoneStrategy) matches(txn domain.BankTransaction, tenant domain.Tenant) bool {
	phone, ok := txn.ExtractPhoneNumber()
	if !ok {
		return false
	}
	registered := tenant.PhoneDigits()
	return registered != "" && domain.CanonicalPhone(phone) == registered
}

// nameAmountStrategy is the last resort: the counterparty display name must
// resemble the tenant's full name AND the amount must equal the tenant's
// monthly rent within the rounding tolerance. Free-text counterparty fields
// are inconsistently formatted, so the amount requirement keeps false
// positives down.
type nameAmountStrategy struct {
	tolerance decimal.Decimal
}

func (nameAmountStrategy) method() domain.MatchMethod { return domain.MatchByNameAmount }

func (s nameAmountStrategy) matches(txn domain.BankTransaction, tenant domain.Tenant) bool {
	if !txn.MatchesAmount(tenant.MonthlyRent, s.tolerance) {
		return false
	}
	return namesResemble(txn.CounterpartyName, tenant.FullName)
}

// tenantResolver tries each matching tier in order of reliability.
type tenantResolver struct {
	strategies []matchStrategy
}

// NewTenantResolver creates the three-tier resolver.
func NewTenantResolver(cfg config.ReconciliationConfig) portssvc.TenantResolverFacade {
	return &tenantResolver{
		strategies: []matchStrategy{
			referenceCodeStrategy{},
			phoneStrategy{},
			nameAmountStrategy{tolerance: cfg.AmountMatchTolerance},
		},
	}
}

var _ portssvc.TenantResolverFacade = (*tenantResolver)(nil)

// Resolve returns the best-matching tenant and the tier that matched, or
// (nil, "") when no tenant matches.
func (r *tenantResolver) Resolve(ctx context.Context, txn domain.BankTransaction, tenants []domain.Tenant) (*domain.Tenant, domain.MatchMethod) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, strategy := range r.strategies {
		for i := range tenants {
			if strategy.matches(txn, tenants[i]) {
				logger.Debug("Tenant resolved",
					slog.String("transaction_id", txn.TransactionID),
					slog.String("tenant_id", tenants[i].TenantID),
					slog.String("match_method", string(strategy.method())),
				)
				return &tenants[i], strategy.method()
			}
		}
	}
	return nil, ""
}

// AttributedTo reports whether the transaction plausibly belongs to the
// tenant without requiring the amount to line up. Used by the aggregator,
// where each member of a split payment matches no expected amount on its
// own.
func (r *tenantResolver) AttributedTo(txn domain.BankTransaction, tenant domain.Tenant) bool {
	if txn.HasReferenceCodeFor(tenant.TenantID) {
		return true
	}
	if (phoneStrategy{}).matches(txn, tenant) {
		return true
	}
	return namesResemble(txn.CounterpartyName, tenant.FullName)
}

// namesResemble applies the two independent name-similarity tests; either
// passing is sufficient.
func namesResemble(counterparty, fullName string) bool {
	if counterparty == "" || fullName == "" {
		return false
	}
	if editSimilarity(counterparty, fullName) >= minNameSimilarity {
		return true
	}
	return tokensContained(counterparty, fullName)
}

// editSimilarity computes 1 - distance/longerLength over the lowercased,
// letters-only forms of the two names.
func editSimilarity(a, b string) float64 {
	na, nb := lettersOf(a), lettersOf(b)
	if na == "" || nb == "" {
		return 0
	}
	longer := len([]rune(na))
	if l := len([]rune(nb)); l > longer {
		longer = l
	}
	dist := levenshtein.DistanceForStrings([]rune(na), []rune(nb), levenshtein.DefaultOptions)
	return 1 - float64(dist)/float64(longer)
}

// tokensContained checks that every word of the shorter name appears as a
// substring of some word of the longer name. A single-letter token is
// treated as an initial and matches any word beginning with that letter.
func tokensContained(a, b string) bool {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	shorter, longer := wordsA, wordsB
	if len(strings.Join(wordsB, "")) < len(strings.Join(wordsA, "")) {
		shorter, longer = wordsB, wordsA
	}

	for _, token := range shorter {
		token = strings.TrimFunc(token, func(r rune) bool { return !unicode.IsLetter(r) })
		if token == "" {
			continue
		}
		if !tokenInWords(token, longer) {
			return false
		}
	}
	return true
}

func tokenInWords(token string, words []string) bool {
	initial := len([]rune(token)) == 1
	for _, w := range words {
		if initial {
			if strings.HasPrefix(w, token) {
				return true
			}
			continue
		}
		if strings.Contains(w, token) {
			return true
		}
	}
	return false
}

// lettersOf lowercases and strips everything that is not a letter.
func lettersOf(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

