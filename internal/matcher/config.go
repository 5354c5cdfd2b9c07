// Package matcher implements the bank-statement reconciliation engine.
//
// The engine matches imported bank-statement line items against internally
// recorded ledger transactions in two phases:
//  1. Exact pass: equal amount, equal date, and equal (or containing)
//     counterparty names.
//  2. Fuzzy pass: per-field sub-scores combined into a weighted confidence
//     value, with the best-scoring remaining candidate accepted above a
//     fixed threshold.
//
// A record consumed by either phase is never revisited, so every input
// record ends up in exactly one match or exactly one unmatched list.
//
// Example usage:
//
//	config := matcher.DefaultConfig()
//	config.DateToleranceDays = 3
//	config.AmountTolerancePercent = 0.02
//
//	result, err := matcher.MatchRecords(bankRecords, ledgerRecords, config)
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchType represents how a pairing between a bank record and a ledger
// record was established.
type MatchType int

const (
	// MatchExact means amount, date, and counterparty agreed exactly
	// (counterparty by equality or containment). Exact matches always
	// carry confidence 1.0 and never produce discrepancies.
	MatchExact MatchType = iota

	// MatchFuzzy means the pairing was accepted despite imperfect
	// agreement, based on the weighted confidence score exceeding the
	// acceptance threshold. Fuzzy matches may carry amount discrepancies.
	MatchFuzzy
)

// String returns the string representation of MatchType
func (mt MatchType) String() string {
	switch mt {
	case MatchExact:
		return "Exact"
	case MatchFuzzy:
		return "Fuzzy"
	default:
		return "Unknown"
	}
}

// FuzzyAcceptanceThreshold is the fixed minimum overall score a fuzzy
// candidate must reach to be accepted as a match.
const FuzzyAcceptanceThreshold = 0.7

// Scoring weights for the combined confidence value. Amount is the most
// decisive field; date and counterparty are supportive.
const (
	amountWeight       = 0.4
	dateWeight         = 0.3
	counterpartyWeight = 0.3
)

// Config holds the tolerances and feature toggles for reconciliation
// matching. A Config is plain immutable data; construct one with
// DefaultConfig and validate before use. The engine refuses to run with an
// invalid configuration.
type Config struct {
	// AmountTolerancePercent is the allowed amount deviation as a fraction
	// of the larger absolute amount (0.02 = 2%).
	AmountTolerancePercent float64 `json:"amount_tolerance_percent"`

	// AmountToleranceAbsolute is the allowed amount deviation in currency
	// units. The effective tolerance is whichever of the two is greater.
	AmountToleranceAbsolute decimal.Decimal `json:"amount_tolerance_absolute"`

	// DateToleranceDays is the number of days of date drift still
	// considered close enough to match.
	DateToleranceDays int `json:"date_tolerance_days"`

	// CounterpartySimilarityThreshold is the minimum name similarity ratio
	// considered a name agreement (0.0 to 1.0).
	CounterpartySimilarityThreshold float64 `json:"counterparty_similarity_threshold"`

	// DescriptionSimilarityThreshold is reserved for description-based
	// matching; it is validated but currently informational.
	DescriptionSimilarityThreshold float64 `json:"description_similarity_threshold"`

	// EnableFuzzyMatching enables the fuzzy pass. When disabled, any record
	// not exactly matched is reported unmatched.
	EnableFuzzyMatching bool `json:"enable_fuzzy_matching"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		AmountTolerancePercent:          0.02,
		AmountToleranceAbsolute:         decimal.NewFromFloat(1.00),
		DateToleranceDays:               3,
		CounterpartySimilarityThreshold: 0.8,
		DescriptionSimilarityThreshold:  0.6,
		EnableFuzzyMatching:             true,
	}
}

// StrictConfig returns a configuration that only accepts exact matches
func StrictConfig() *Config {
	return &Config{
		AmountTolerancePercent:          0.0,
		AmountToleranceAbsolute:         decimal.Zero,
		DateToleranceDays:               0,
		CounterpartySimilarityThreshold: 1.0,
		DescriptionSimilarityThreshold:  1.0,
		EnableFuzzyMatching:             false,
	}
}

// Validate checks if the matching configuration is valid
func (c *Config) Validate() error {
	if c.AmountTolerancePercent < 0.0 {
		return fmt.Errorf("amount tolerance percent cannot be negative: %f", c.AmountTolerancePercent)
	}

	if c.AmountToleranceAbsolute.IsNegative() {
		return fmt.Errorf("amount tolerance absolute cannot be negative: %s", c.AmountToleranceAbsolute.String())
	}

	if c.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", c.DateToleranceDays)
	}

	if c.CounterpartySimilarityThreshold < 0.0 || c.CounterpartySimilarityThreshold > 1.0 {
		return fmt.Errorf("counterparty similarity threshold must be between 0.0 and 1.0: %f", c.CounterpartySimilarityThreshold)
	}

	if c.DescriptionSimilarityThreshold < 0.0 || c.DescriptionSimilarityThreshold > 1.0 {
		return fmt.Errorf("description similarity threshold must be between 0.0 and 1.0: %f", c.DescriptionSimilarityThreshold)
	}

	return nil
}

// Clone creates a copy of the matching configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}

// AllowedAmountDeviation calculates the effective amount tolerance for a
// pair of amounts: the greater of the absolute tolerance and the percentage
// tolerance applied to the larger absolute amount.
func (c *Config) AllowedAmountDeviation(a, b decimal.Decimal) decimal.Decimal {
	larger := a.Abs()
	if b.Abs().GreaterThan(larger) {
		larger = b.Abs()
	}

	percentTolerance := larger.Mul(decimal.NewFromFloat(c.AmountTolerancePercent))
	if c.AmountToleranceAbsolute.GreaterThan(percentTolerance) {
		return c.AmountToleranceAbsolute
	}
	return percentTolerance
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{AmountTolerance: %.2f%%/%s, DateTolerance: %d days, CounterpartyThreshold: %.2f, Fuzzy: %t}",
		c.AmountTolerancePercent*100, c.AmountToleranceAbsolute.String(), c.DateToleranceDays,
		c.CounterpartySimilarityThreshold, c.EnableFuzzyMatching)
}
