// Package config builds the component configurations used by the CLI
// from command-line flag values.
package config

import (
	"fmt"
	"path/filepath"

	"bookkeeping-service/internal/matcher"
	"bookkeeping-service/internal/parsers"
	"bookkeeping-service/internal/reconciler"
	"bookkeeping-service/internal/reporter"

	"github.com/shopspring/decimal"
)

// MatchingOptions collects the matching-related CLI flag values
type MatchingOptions struct {
	DateToleranceDays       int
	AmountTolerancePercent  float64
	AmountToleranceAbsolute float64
	CounterpartyThreshold   float64
	EnableFuzzyMatching     bool
}

// CreateStatementConfig creates a statement parser configuration for the given file
func CreateStatementConfig(statementFile string) *parsers.StatementFileConfig {
	config := parsers.DefaultStatementFileConfig()

	base := filepath.Base(statementFile)
	ext := filepath.Ext(base)
	if ext != "" {
		base = base[:len(base)-len(ext)]
	}
	config.Name = fmt.Sprintf("Statement_%s", base)

	return config
}

// CreateLedgerConfig creates a ledger parser configuration
func CreateLedgerConfig() *parsers.LedgerFileConfig {
	return parsers.DefaultLedgerFileConfig()
}

// CreateMatchingConfig creates a matching configuration from the CLI flag values
func CreateMatchingConfig(options MatchingOptions) *matcher.Config {
	config := matcher.DefaultConfig()

	config.DateToleranceDays = options.DateToleranceDays
	config.AmountTolerancePercent = options.AmountTolerancePercent
	config.AmountToleranceAbsolute = decimal.NewFromFloat(options.AmountToleranceAbsolute)
	config.CounterpartySimilarityThreshold = options.CounterpartyThreshold
	config.EnableFuzzyMatching = options.EnableFuzzyMatching

	return config
}

// CreateServiceConfig creates a reconciliation service configuration
func CreateServiceConfig() *reconciler.Config {
	config := reconciler.DefaultConfig()

	config.ValidateInputs = true
	config.IncludeMatches = true
	config.IncludeStatistics = true

	return config
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string, includeMatches bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
		config.IncludeUnmatched = true
		config.IncludeDiscrepancies = true
		config.IncludeStats = true
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeUnmatched = true
		config.IncludeDiscrepancies = true
		config.IncludeStats = true
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		config.IncludeUnmatched = true
		config.IncludeDiscrepancies = true
		config.IncludeStats = false
	}

	config.IncludeMatches = includeMatches

	return config
}
