package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ReconciliationConfig holds the tuning knobs of the payment matching
// policy. All amounts are in the ledger currency's major units.
type ReconciliationConfig struct {
	// DepositWindowDays is how long after move-in an incoming payment may
	// still be a security deposit rather than rent.
	DepositWindowDays int

	// FirstDepositMin/Max bound the single first-month deposit band.
	FirstDepositMin decimal.Decimal
	FirstDepositMax decimal.Decimal

	// CompositeDepositMin/Max bound the wider band covering combined
	// base-plus-furnishing deposits.
	CompositeDepositMin decimal.Decimal
	CompositeDepositMax decimal.Decimal

	// MinPaymentRatio is the share of the amount due a payment must reach
	// to be accepted without an explicit reference code.
	MinPaymentRatio decimal.Decimal

	// AmountMatchTolerance is the absolute rounding tolerance for the
	// fuzzy-name matching tier.
	AmountMatchTolerance decimal.Decimal

	// AggregationToleranceAbs / AggregationTolerancePct: a group total is
	// accepted when it deviates from the amount due by at most the larger
	// of the absolute amount and the percentage of the amount due.
	AggregationToleranceAbs decimal.Decimal
	AggregationTolerancePct decimal.Decimal

	// RentWindowStartDay / RentWindowEndDay bound the day-of-month range
	// within which rent transfers are expected.
	RentWindowStartDay int
	RentWindowEndDay   int

	// MaxGroupSpanDays is the widest allowed spread between the earliest
	// and latest transaction of an aggregated group.
	MaxGroupSpanDays int

	// MaxAggregationCandidates caps the subset search. Larger candidate
	// sets fail closed: no group is returned.
	MaxAggregationCandidates int
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	Reconciliation ReconciliationConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")

	viper.SetDefault("DEPOSIT_WINDOW_DAYS", 45)
	viper.SetDefault("FIRST_DEPOSIT_MIN", 5900.0)
	viper.SetDefault("FIRST_DEPOSIT_MAX", 6200.0)
	viper.SetDefault("COMPOSITE_DEPOSIT_MIN", 8800.0)
	viper.SetDefault("COMPOSITE_DEPOSIT_MAX", 12400.0)
	viper.SetDefault("MIN_PAYMENT_RATIO", 0.5)
	viper.SetDefault("AMOUNT_MATCH_TOLERANCE", 1.0)
	viper.SetDefault("AGG_TOLERANCE_ABS", 100.0)
	viper.SetDefault("AGG_TOLERANCE_PCT", 0.01)
	viper.SetDefault("RENT_WINDOW_START_DAY", 15)
	viper.SetDefault("RENT_WINDOW_END_DAY", 27)
	viper.SetDefault("MAX_GROUP_SPAN_DAYS", 14)
	viper.SetDefault("MAX_AGGREGATION_CANDIDATES", 10)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.Reconciliation = ReconciliationConfig{
		DepositWindowDays:        viper.GetInt("DEPOSIT_WINDOW_DAYS"),
		FirstDepositMin:          decimal.NewFromFloat(viper.GetFloat64("FIRST_DEPOSIT_MIN")),
		FirstDepositMax:          decimal.NewFromFloat(viper.GetFloat64("FIRST_DEPOSIT_MAX")),
		CompositeDepositMin:      decimal.NewFromFloat(viper.GetFloat64("COMPOSITE_DEPOSIT_MIN")),
		CompositeDepositMax:      decimal.NewFromFloat(viper.GetFloat64("COMPOSITE_DEPOSIT_MAX")),
		MinPaymentRatio:          decimal.NewFromFloat(viper.GetFloat64("MIN_PAYMENT_RATIO")),
		AmountMatchTolerance:     decimal.NewFromFloat(viper.GetFloat64("AMOUNT_MATCH_TOLERANCE")),
		AggregationToleranceAbs:  decimal.NewFromFloat(viper.GetFloat64("AGG_TOLERANCE_ABS")),
		AggregationTolerancePct:  decimal.NewFromFloat(viper.GetFloat64("AGG_TOLERANCE_PCT")),
		RentWindowStartDay:       viper.GetInt("RENT_WINDOW_START_DAY"),
		RentWindowEndDay:         viper.GetInt("RENT_WINDOW_END_DAY"),
		MaxGroupSpanDays:         viper.GetInt("MAX_GROUP_SPAN_DAYS"),
		MaxAggregationCandidates: viper.GetInt("MAX_AGGREGATION_CANDIDATES"),
	}

	if cfg.Reconciliation.RentWindowStartDay < 1 || cfg.Reconciliation.RentWindowStartDay > 28 {
		log.Printf("Warning: RENT_WINDOW_START_DAY %d out of range, defaulting to 15.\n", cfg.Reconciliation.RentWindowStartDay)
		cfg.Reconciliation.RentWindowStartDay = 15
	}
	if cfg.Reconciliation.RentWindowEndDay <= cfg.Reconciliation.RentWindowStartDay {
		log.Printf("Warning: RENT_WINDOW_END_DAY %d not after start day, defaulting to 27.\n", cfg.Reconciliation.RentWindowEndDay)
		cfg.Reconciliation.RentWindowEndDay = 27
	}

	return cfg, nil
}

// DefaultReconciliationConfig returns the policy defaults used when no
// environment overrides are present. Tests build on this.
func DefaultReconciliationConfig() ReconciliationConfig {
	return ReconciliationConfig{
		DepositWindowDays:        45,
		FirstDepositMin:          decimal.NewFromInt(5900),
		FirstDepositMax:          decimal.NewFromInt(6200),
		CompositeDepositMin:      decimal.NewFromInt(8800),
		CompositeDepositMax:      decimal.NewFromInt(12400),
		MinPaymentRatio:          decimal.NewFromFloat(0.5),
		AmountMatchTolerance:     decimal.NewFromInt(1),
		AggregationToleranceAbs:  decimal.NewFromInt(100),
		AggregationTolerancePct:  decimal.NewFromFloat(0.01),
		RentWindowStartDay:       15,
		RentWindowEndDay:         27,
		MaxGroupSpanDays:         14,
		MaxAggregationCandidates: 10,
	}
}
