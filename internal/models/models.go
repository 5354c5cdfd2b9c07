package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankRecord represents a single line item from an imported bank statement.
// Records are immutable once constructed; the reconciliation engine never
// mutates them.
type BankRecord struct {
	ID           string          `json:"id" csv:"id"`
	Amount       decimal.Decimal `json:"amount" csv:"amount"`
	Date         time.Time       `json:"date" csv:"date"`
	Counterparty string          `json:"counterparty" csv:"counterparty"`
	Description  string          `json:"description" csv:"description"`
}

// NewBankRecord creates a new BankRecord instance
func NewBankRecord(id string, amount decimal.Decimal, date time.Time, counterparty, description string) *BankRecord {
	return &BankRecord{
		ID:           id,
		Amount:       amount,
		Date:         DateOnly(date),
		Counterparty: strings.TrimSpace(counterparty),
		Description:  strings.TrimSpace(description),
	}
}

// Validate performs basic validation on the BankRecord
func (b *BankRecord) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("bank record ID cannot be empty")
	}

	if b.Date.IsZero() {
		return fmt.Errorf("bank record date cannot be zero")
	}

	return nil
}

// String returns a string representation of the BankRecord
func (b *BankRecord) String() string {
	return fmt.Sprintf("BankRecord{ID: %s, Amount: %s, Date: %s, Counterparty: %s}",
		b.ID, b.Amount.String(), b.Date.Format("2006-01-02"), b.Counterparty)
}

// MarshalJSON implements custom JSON marshaling for BankRecord
func (b *BankRecord) MarshalJSON() ([]byte, error) {
	type Alias BankRecord
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: b.Amount.String(),
		Date:   b.Date.Format("2006-01-02"),
		Alias:  (*Alias)(b),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for BankRecord
func (b *BankRecord) UnmarshalJSON(data []byte) error {
	type Alias BankRecord
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	b.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	b.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// Equals compares two BankRecord instances for equality
func (b *BankRecord) Equals(other *BankRecord) bool {
	if other == nil {
		return false
	}

	return b.ID == other.ID &&
		b.Amount.Equal(other.Amount) &&
		SameDay(b.Date, other.Date) &&
		b.Counterparty == other.Counterparty
}

// LedgerRecord represents an internally recorded income or expense
// transaction from the bookkeeping ledger. It carries the same shape as
// BankRecord but is sourced from the system of record rather than from an
// imported statement.
type LedgerRecord struct {
	ID           string          `json:"id" csv:"id"`
	Amount       decimal.Decimal `json:"amount" csv:"amount"`
	Date         time.Time       `json:"date" csv:"date"`
	Counterparty string          `json:"counterparty" csv:"counterparty"`
	Description  string          `json:"description" csv:"description"`
}

// NewLedgerRecord creates a new LedgerRecord instance
func NewLedgerRecord(id string, amount decimal.Decimal, date time.Time, counterparty, description string) *LedgerRecord {
	return &LedgerRecord{
		ID:           id,
		Amount:       amount,
		Date:         DateOnly(date),
		Counterparty: strings.TrimSpace(counterparty),
		Description:  strings.TrimSpace(description),
	}
}

// Validate performs basic validation on the LedgerRecord
func (l *LedgerRecord) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("ledger record ID cannot be empty")
	}

	if l.Date.IsZero() {
		return fmt.Errorf("ledger record date cannot be zero")
	}

	return nil
}

// String returns a string representation of the LedgerRecord
func (l *LedgerRecord) String() string {
	return fmt.Sprintf("LedgerRecord{ID: %s, Amount: %s, Date: %s, Counterparty: %s}",
		l.ID, l.Amount.String(), l.Date.Format("2006-01-02"), l.Counterparty)
}

// MarshalJSON implements custom JSON marshaling for LedgerRecord
func (l *LedgerRecord) MarshalJSON() ([]byte, error) {
	type Alias LedgerRecord
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: l.Amount.String(),
		Date:   l.Date.Format("2006-01-02"),
		Alias:  (*Alias)(l),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for LedgerRecord
func (l *LedgerRecord) UnmarshalJSON(data []byte) error {
	type Alias LedgerRecord
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(l),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	l.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	l.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// Equals compares two LedgerRecord instances for equality
func (l *LedgerRecord) Equals(other *LedgerRecord) bool {
	if other == nil {
		return false
	}

	return l.ID == other.ID &&
		l.Amount.Equal(other.Amount) &&
		SameDay(l.Date, other.Date) &&
		l.Counterparty == other.Counterparty
}

// Utility functions for type conversion and comparison

// DateOnly strips the time component, leaving midnight UTC of the same
// calendar day. Statement dates carry no meaningful time of day.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DayDifference returns the absolute number of whole days between two dates
func DayDifference(a, b time.Time) int {
	diff := DateOnly(a).Sub(DateOnly(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseDateWithFormats attempts to parse a date from string using multiple common formats
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	// Common date formats used in statement and ledger exports
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return DateOnly(t), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// CreateBankRecordFromCSV creates a BankRecord from CSV field values
func CreateBankRecordFromCSV(id, amountStr, dateStr, counterparty, description string) (*BankRecord, error) {
	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	date, err := ParseDateWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date in CSV: %w", err)
	}

	record := NewBankRecord(strings.TrimSpace(id), amount, date, counterparty, description)

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bank record data: %w", err)
	}

	return record, nil
}

// CreateLedgerRecordFromCSV creates a LedgerRecord from CSV field values
func CreateLedgerRecordFromCSV(id, amountStr, dateStr, counterparty, description string) (*LedgerRecord, error) {
	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	date, err := ParseDateWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date in CSV: %w", err)
	}

	record := NewLedgerRecord(strings.TrimSpace(id), amount, date, counterparty, description)

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger record data: %w", err)
	}

	return record, nil
}
