package config

import (
	"testing"

	"bookkeeping-service/internal/reporter"

	"github.com/shopspring/decimal"
)

func TestCreateStatementConfig(t *testing.T) {
	config := CreateStatementConfig("/data/exports/january_statement.csv")

	if err := config.Validate(); err != nil {
		t.Fatalf("Generated config should be valid: %v", err)
	}
	if config.Name != "Statement_january_statement" {
		t.Errorf("Expected name derived from file, got %s", config.Name)
	}
	if config.IDColumn != "id" || config.AmountColumn != "amount" {
		t.Error("Expected standard column layout")
	}
}

func TestCreateLedgerConfig(t *testing.T) {
	config := CreateLedgerConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("Generated config should be valid: %v", err)
	}
	if !config.HasHeader {
		t.Error("Expected header row by default")
	}
}

func TestCreateMatchingConfig(t *testing.T) {
	config := CreateMatchingConfig(MatchingOptions{
		DateToleranceDays:       5,
		AmountTolerancePercent:  0.05,
		AmountToleranceAbsolute: 2.50,
		CounterpartyThreshold:   0.9,
		EnableFuzzyMatching:     false,
	})

	if err := config.Validate(); err != nil {
		t.Fatalf("Generated config should be valid: %v", err)
	}
	if config.DateToleranceDays != 5 {
		t.Errorf("Expected date tolerance 5, got %d", config.DateToleranceDays)
	}
	if config.AmountTolerancePercent != 0.05 {
		t.Errorf("Expected amount tolerance 0.05, got %f", config.AmountTolerancePercent)
	}
	if !config.AmountToleranceAbsolute.Equal(decimal.NewFromFloat(2.50)) {
		t.Errorf("Expected absolute tolerance 2.50, got %s", config.AmountToleranceAbsolute.String())
	}
	if config.EnableFuzzyMatching {
		t.Error("Expected fuzzy matching disabled")
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format       string
		wantFormat   reporter.OutputFormat
		includeStats bool
	}{
		{"console", reporter.FormatConsole, true},
		{"json", reporter.FormatJSON, true},
		{"csv", reporter.FormatCSV, false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			config := CreateReportConfig(tt.format, false)

			if config.Format != tt.wantFormat {
				t.Errorf("Expected format %s, got %s", tt.wantFormat, config.Format)
			}
			if config.IncludeStats != tt.includeStats {
				t.Errorf("Expected IncludeStats %t for %s", tt.includeStats, tt.format)
			}
			if config.IncludeMatches {
				t.Error("Expected matches excluded when not requested")
			}
		})
	}

	withMatches := CreateReportConfig("csv", true)
	if !withMatches.IncludeMatches {
		t.Error("Expected matches included when requested")
	}
}
