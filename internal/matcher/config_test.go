package matcher

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	if config.AmountTolerancePercent != 0.02 {
		t.Errorf("Expected amount tolerance 0.02, got %f", config.AmountTolerancePercent)
	}
	if config.DateToleranceDays != 3 {
		t.Errorf("Expected date tolerance 3, got %d", config.DateToleranceDays)
	}
	if !config.EnableFuzzyMatching {
		t.Error("Expected fuzzy matching to be enabled by default")
	}
}

func TestStrictConfig(t *testing.T) {
	config := StrictConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("Strict config should be valid: %v", err)
	}

	if config.EnableFuzzyMatching {
		t.Error("Expected fuzzy matching to be disabled in strict config")
	}
	if config.DateToleranceDays != 0 {
		t.Errorf("Expected zero date tolerance, got %d", config.DateToleranceDays)
	}
	if !config.AmountToleranceAbsolute.IsZero() {
		t.Errorf("Expected zero absolute tolerance, got %s", config.AmountToleranceAbsolute.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "default is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative amount tolerance percent",
			modify:  func(c *Config) { c.AmountTolerancePercent = -0.1 },
			wantErr: true,
		},
		{
			name:    "negative absolute tolerance",
			modify:  func(c *Config) { c.AmountToleranceAbsolute = decimal.NewFromFloat(-1.0) },
			wantErr: true,
		},
		{
			name:    "negative date tolerance",
			modify:  func(c *Config) { c.DateToleranceDays = -1 },
			wantErr: true,
		},
		{
			name:    "counterparty threshold above range",
			modify:  func(c *Config) { c.CounterpartySimilarityThreshold = 1.5 },
			wantErr: true,
		},
		{
			name:    "counterparty threshold below range",
			modify:  func(c *Config) { c.CounterpartySimilarityThreshold = -0.1 },
			wantErr: true,
		},
		{
			name:    "description threshold out of range",
			modify:  func(c *Config) { c.DescriptionSimilarityThreshold = 2.0 },
			wantErr: true,
		},
		{
			name:    "boundary values are valid",
			modify:  func(c *Config) { c.CounterpartySimilarityThreshold = 1.0; c.DateToleranceDays = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	if clone == original {
		t.Fatal("Expected clone to be a different instance")
	}

	clone.DateToleranceDays = 99
	if original.DateToleranceDays == 99 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestConfig_AllowedAmountDeviation(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		abs      float64
		a        float64
		b        float64
		expected string
	}{
		{
			name:     "absolute floor wins for small amounts",
			pct:      0.02,
			abs:      1.00,
			a:        10.00,
			b:        10.50,
			expected: "1",
		},
		{
			name:     "percentage wins for large amounts",
			pct:      0.02,
			abs:      1.00,
			a:        1000.00,
			b:        990.00,
			expected: "20",
		},
		{
			name:     "uses larger absolute amount",
			pct:      0.10,
			abs:      0.00,
			a:        -200.00,
			b:        100.00,
			expected: "20",
		},
		{
			name:     "zero tolerances give zero deviation",
			pct:      0.0,
			abs:      0.0,
			a:        50.00,
			b:        50.00,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				AmountTolerancePercent:  tt.pct,
				AmountToleranceAbsolute: decimal.NewFromFloat(tt.abs),
			}

			got := config.AllowedAmountDeviation(decimal.NewFromFloat(tt.a), decimal.NewFromFloat(tt.b))
			if got.String() != tt.expected {
				t.Errorf("AllowedAmountDeviation() = %s, want %s", got.String(), tt.expected)
			}
		})
	}
}

func TestMatchType_String(t *testing.T) {
	if MatchExact.String() != "Exact" {
		t.Errorf("Expected 'Exact', got %s", MatchExact.String())
	}
	if MatchFuzzy.String() != "Fuzzy" {
		t.Errorf("Expected 'Fuzzy', got %s", MatchFuzzy.String())
	}
	if MatchType(99).String() != "Unknown" {
		t.Errorf("Expected 'Unknown', got %s", MatchType(99).String())
	}
}
