package parsers

import (
	"fmt"
	"strings"
)

// StatementFileConfig describes the CSV layout of a bank-statement export.
// Different banks name their columns differently; ColumnAliases maps the
// bank's header names onto the canonical ones.
type StatementFileConfig struct {
	Name               string            `json:"name"`
	IDColumn           string            `json:"id_column"`
	AmountColumn       string            `json:"amount_column"`
	DateColumn         string            `json:"date_column"`
	CounterpartyColumn string            `json:"counterparty_column"`
	DescriptionColumn  string            `json:"description_column"`
	HasHeader          bool              `json:"has_header"`
	Delimiter          rune              `json:"delimiter"`
	ColumnAliases      map[string]string `json:"column_aliases,omitempty"`
}

// DefaultStatementFileConfig returns the standard statement export layout
func DefaultStatementFileConfig() *StatementFileConfig {
	return &StatementFileConfig{
		Name:               "Standard",
		IDColumn:           "id",
		AmountColumn:       "amount",
		DateColumn:         "date",
		CounterpartyColumn: "counterparty",
		DescriptionColumn:  "description",
		HasHeader:          true,
		Delimiter:          ',',
		ColumnAliases: map[string]string{
			"reference":        "id",
			"ref":              "id",
			"transaction_id":   "id",
			"amt":              "amount",
			"value":            "amount",
			"posting_date":     "date",
			"value_date":       "date",
			"transaction_date": "date",
			"payee":            "counterparty",
			"merchant":         "counterparty",
			"name":             "counterparty",
			"memo":             "description",
			"narrative":        "description",
		},
	}
}

// Validate checks if the statement file configuration is valid
func (c *StatementFileConfig) Validate() error {
	if strings.TrimSpace(c.IDColumn) == "" {
		return fmt.Errorf("ID column name cannot be empty")
	}

	if strings.TrimSpace(c.AmountColumn) == "" {
		return fmt.Errorf("amount column name cannot be empty")
	}

	if strings.TrimSpace(c.DateColumn) == "" {
		return fmt.Errorf("date column name cannot be empty")
	}

	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be zero")
	}

	return nil
}

// LedgerFileConfig describes the CSV layout of a ledger export
type LedgerFileConfig struct {
	IDColumn           string            `json:"id_column"`
	AmountColumn       string            `json:"amount_column"`
	DateColumn         string            `json:"date_column"`
	CounterpartyColumn string            `json:"counterparty_column"`
	DescriptionColumn  string            `json:"description_column"`
	HasHeader          bool              `json:"has_header"`
	Delimiter          rune              `json:"delimiter"`
	ColumnAliases      map[string]string `json:"column_aliases,omitempty"`
}

// DefaultLedgerFileConfig returns the standard ledger export layout
func DefaultLedgerFileConfig() *LedgerFileConfig {
	return &LedgerFileConfig{
		IDColumn:           "id",
		AmountColumn:       "amount",
		DateColumn:         "date",
		CounterpartyColumn: "counterparty",
		DescriptionColumn:  "description",
		HasHeader:          true,
		Delimiter:          ',',
		ColumnAliases: map[string]string{
			"entry_id":    "id",
			"record_id":   "id",
			"amt":         "amount",
			"value":       "amount",
			"entry_date":  "date",
			"booked_date": "date",
			"customer":    "counterparty",
			"supplier":    "counterparty",
			"payee":       "counterparty",
			"memo":        "description",
			"note":        "description",
		},
	}
}

// Validate checks if the ledger file configuration is valid
func (c *LedgerFileConfig) Validate() error {
	if strings.TrimSpace(c.IDColumn) == "" {
		return fmt.Errorf("ID column name cannot be empty")
	}

	if strings.TrimSpace(c.AmountColumn) == "" {
		return fmt.Errorf("amount column name cannot be empty")
	}

	if strings.TrimSpace(c.DateColumn) == "" {
		return fmt.Errorf("date column name cannot be empty")
	}

	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be zero")
	}

	return nil
}

// resolveAlias maps a raw header name onto its canonical column name
func resolveAlias(aliases map[string]string, header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return normalized
}
