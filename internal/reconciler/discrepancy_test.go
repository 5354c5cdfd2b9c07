package reconciler

import (
	"testing"
	"time"

	"bookkeeping-service/internal/matcher"
	"bookkeeping-service/internal/models"

	"github.com/shopspring/decimal"
)

func bankRecord(id string, amount float64, date time.Time, counterparty string) *models.BankRecord {
	return &models.BankRecord{
		ID:           id,
		Amount:       decimal.NewFromFloat(amount),
		Date:         models.DateOnly(date),
		Counterparty: counterparty,
	}
}

func ledgerRecord(id string, amount float64, date time.Time, counterparty string) *models.LedgerRecord {
	return &models.LedgerRecord{
		ID:           id,
		Amount:       decimal.NewFromFloat(amount),
		Date:         models.DateOnly(date),
		Counterparty: counterparty,
	}
}

func testDate() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func TestIdentifyDiscrepancies_AmountMismatch(t *testing.T) {
	bank := bankRecord("BNK001", 100.50, testDate(), "Acme Corp")
	ledger := ledgerRecord("LED001", 100.00, testDate(), "Acme Corp")

	result := &matcher.Result{
		Matches: []*matcher.Match{
			{Bank: bank, Ledger: ledger, Confidence: 0.9, Type: matcher.MatchFuzzy},
		},
		UnmatchedBankRecords:   []*models.BankRecord{},
		UnmatchedLedgerRecords: []*models.LedgerRecord{},
		TotalBankRecords:       1,
		TotalLedgerRecords:     1,
	}

	discrepancies := IdentifyDiscrepancies(result)

	if len(discrepancies) != 1 {
		t.Fatalf("Expected 1 discrepancy, got %d", len(discrepancies))
	}

	d := discrepancies[0]
	if d.Type != DiscrepancyAmountMismatch {
		t.Errorf("Expected amount mismatch, got %s", d.Type)
	}
	// Difference is signed: bank minus ledger
	if !d.Difference.Equal(decimal.NewFromFloat(0.50)) {
		t.Errorf("Expected difference 0.50, got %s", d.Difference.String())
	}
	if d.Bank.ID != "BNK001" || d.Ledger.ID != "LED001" {
		t.Error("Discrepancy should reference both records")
	}
}

func TestIdentifyDiscrepancies_NegativeDifference(t *testing.T) {
	bank := bankRecord("BNK001", 99.00, testDate(), "Acme Corp")
	ledger := ledgerRecord("LED001", 100.00, testDate(), "Acme Corp")

	result := &matcher.Result{
		Matches: []*matcher.Match{
			{Bank: bank, Ledger: ledger, Confidence: 0.9, Type: matcher.MatchFuzzy},
		},
		UnmatchedBankRecords:   []*models.BankRecord{},
		UnmatchedLedgerRecords: []*models.LedgerRecord{},
	}

	discrepancies := IdentifyDiscrepancies(result)

	if len(discrepancies) != 1 {
		t.Fatalf("Expected 1 discrepancy, got %d", len(discrepancies))
	}
	if !discrepancies[0].Difference.Equal(decimal.NewFromFloat(-1.00)) {
		t.Errorf("Expected difference -1.00, got %s", discrepancies[0].Difference.String())
	}
}

func TestIdentifyDiscrepancies_WithinOneCentTolerated(t *testing.T) {
	tests := []struct {
		name       string
		bankAmount float64
		want       int
	}{
		{"equal amounts", 100.00, 0},
		{"exactly one cent apart", 100.01, 0},
		{"just over one cent", 100.02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &matcher.Result{
				Matches: []*matcher.Match{
					{
						Bank:       bankRecord("BNK001", tt.bankAmount, testDate(), ""),
						Ledger:     ledgerRecord("LED001", 100.00, testDate(), ""),
						Confidence: 0.9,
						Type:       matcher.MatchFuzzy,
					},
				},
				UnmatchedBankRecords:   []*models.BankRecord{},
				UnmatchedLedgerRecords: []*models.LedgerRecord{},
			}

			discrepancies := IdentifyDiscrepancies(result)
			if len(discrepancies) != tt.want {
				t.Errorf("Expected %d discrepancies, got %d", tt.want, len(discrepancies))
			}
		})
	}
}

func TestIdentifyDiscrepancies_ExactMatchesNeverFlagged(t *testing.T) {
	// An exact match never produces a discrepancy regardless of its amounts
	result := &matcher.Result{
		Matches: []*matcher.Match{
			{
				Bank:       bankRecord("BNK001", 100.00, testDate(), "Acme"),
				Ledger:     ledgerRecord("LED001", 100.00, testDate(), "Acme"),
				Confidence: 1.0,
				Type:       matcher.MatchExact,
			},
		},
		UnmatchedBankRecords:   []*models.BankRecord{},
		UnmatchedLedgerRecords: []*models.LedgerRecord{},
	}

	if got := IdentifyDiscrepancies(result); len(got) != 0 {
		t.Errorf("Expected no discrepancies for exact matches, got %d", len(got))
	}
}

func TestIdentifyDiscrepancies_MissingRecords(t *testing.T) {
	result := &matcher.Result{
		Matches: []*matcher.Match{},
		UnmatchedBankRecords: []*models.BankRecord{
			bankRecord("BNK001", 500.00, testDate(), "Unknown Vendor"),
		},
		UnmatchedLedgerRecords: []*models.LedgerRecord{
			ledgerRecord("LED001", 1200.00, testDate(), "Landlord LLC"),
		},
		TotalBankRecords:   1,
		TotalLedgerRecords: 1,
	}

	discrepancies := IdentifyDiscrepancies(result)

	if len(discrepancies) != 2 {
		t.Fatalf("Expected 2 discrepancies, got %d", len(discrepancies))
	}

	if discrepancies[0].Type != DiscrepancyMissingLedgerRecord {
		t.Errorf("Expected missing ledger record first, got %s", discrepancies[0].Type)
	}
	if discrepancies[0].Bank.ID != "BNK001" || discrepancies[0].Ledger != nil {
		t.Error("Missing ledger discrepancy should reference only the bank record")
	}

	if discrepancies[1].Type != DiscrepancyMissingBankRecord {
		t.Errorf("Expected missing bank record second, got %s", discrepancies[1].Type)
	}
	if discrepancies[1].Ledger.ID != "LED001" || discrepancies[1].Bank != nil {
		t.Error("Missing bank discrepancy should reference only the ledger record")
	}
}

func TestIdentifyDiscrepancies_Ordering(t *testing.T) {
	// Amount mismatches come first in match order, then missing ledger
	// records in unmatched bank order, then missing bank records.
	result := &matcher.Result{
		Matches: []*matcher.Match{
			{
				Bank:       bankRecord("BNK001", 100.50, testDate(), ""),
				Ledger:     ledgerRecord("LED001", 100.00, testDate(), ""),
				Confidence: 0.9,
				Type:       matcher.MatchFuzzy,
			},
			{
				Bank:       bankRecord("BNK002", 200.75, testDate(), ""),
				Ledger:     ledgerRecord("LED002", 200.00, testDate(), ""),
				Confidence: 0.85,
				Type:       matcher.MatchFuzzy,
			},
		},
		UnmatchedBankRecords: []*models.BankRecord{
			bankRecord("BNK003", 50.00, testDate(), ""),
			bankRecord("BNK004", 60.00, testDate(), ""),
		},
		UnmatchedLedgerRecords: []*models.LedgerRecord{
			ledgerRecord("LED003", 70.00, testDate(), ""),
		},
	}

	discrepancies := IdentifyDiscrepancies(result)

	expectedTypes := []DiscrepancyType{
		DiscrepancyAmountMismatch,
		DiscrepancyAmountMismatch,
		DiscrepancyMissingLedgerRecord,
		DiscrepancyMissingLedgerRecord,
		DiscrepancyMissingBankRecord,
	}

	if len(discrepancies) != len(expectedTypes) {
		t.Fatalf("Expected %d discrepancies, got %d", len(expectedTypes), len(discrepancies))
	}

	for i, want := range expectedTypes {
		if discrepancies[i].Type != want {
			t.Errorf("Discrepancy %d: expected %s, got %s", i, want, discrepancies[i].Type)
		}
	}

	if discrepancies[2].Bank.ID != "BNK003" || discrepancies[3].Bank.ID != "BNK004" {
		t.Error("Missing ledger discrepancies should preserve unmatched bank order")
	}
}

func TestIdentifyDiscrepancies_Repeatable(t *testing.T) {
	result := &matcher.Result{
		Matches: []*matcher.Match{
			{
				Bank:       bankRecord("BNK001", 100.50, testDate(), ""),
				Ledger:     ledgerRecord("LED001", 100.00, testDate(), ""),
				Confidence: 0.9,
				Type:       matcher.MatchFuzzy,
			},
		},
		UnmatchedBankRecords: []*models.BankRecord{
			bankRecord("BNK002", 50.00, testDate(), ""),
		},
		UnmatchedLedgerRecords: []*models.LedgerRecord{},
	}

	first := IdentifyDiscrepancies(result)
	second := IdentifyDiscrepancies(result)

	if len(first) != len(second) {
		t.Fatalf("Repeated calls should produce the same count: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i].Type != second[i].Type || first[i].Description != second[i].Description {
			t.Errorf("Discrepancy %d differs between calls", i)
		}
	}
}

func TestIdentifyDiscrepancies_CleanResult(t *testing.T) {
	result := &matcher.Result{
		Matches: []*matcher.Match{
			{
				Bank:       bankRecord("BNK001", 100.00, testDate(), "Acme"),
				Ledger:     ledgerRecord("LED001", 100.00, testDate(), "Acme"),
				Confidence: 1.0,
				Type:       matcher.MatchExact,
			},
		},
		UnmatchedBankRecords:   []*models.BankRecord{},
		UnmatchedLedgerRecords: []*models.LedgerRecord{},
	}

	discrepancies := IdentifyDiscrepancies(result)
	if discrepancies == nil {
		t.Fatal("Expected empty slice, not nil")
	}
	if len(discrepancies) != 0 {
		t.Errorf("Expected no discrepancies for a fully reconciled result, got %d", len(discrepancies))
	}
}
