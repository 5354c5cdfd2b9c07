package matcher

import (
	"math"
	"testing"
	"time"

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

func day(dayOfMonth int) time.Time {
	return time.Date(2026, 1, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestScorer_AmountScore(t *testing.T) {
	scorer := NewScorer(nil)

	tests := []struct {
		name       string
		bankAmount float64
		ledgAmount float64
		pct        float64
		abs        float64
		want       float64
	}{
		{
			name:       "equal amounts score full",
			bankAmount: 100.00,
			ledgAmount: 100.00,
			pct:        0.02,
			abs:        1.00,
			want:       1.0,
		},
		{
			name:       "deviation at half the allowance",
			bankAmount: 100.00,
			ledgAmount: 99.00,
			pct:        0.02,
			abs:        0.00,
			want:       0.5,
		},
		{
			name:       "deviation at the allowance scores zero",
			bankAmount: 100.00,
			ledgAmount: 98.00,
			pct:        0.02,
			abs:        0.00,
			want:       0.0,
		},
		{
			name:       "deviation beyond the allowance clamps at zero",
			bankAmount: 100.00,
			ledgAmount: 50.00,
			pct:        0.02,
			abs:        1.00,
			want:       0.0,
		},
		{
			name:       "zero tolerance requires exact equality",
			bankAmount: 100.00,
			ledgAmount: 100.01,
			pct:        0.0,
			abs:        0.0,
			want:       0.0,
		},
		{
			name:       "zero tolerance with equal amounts",
			bankAmount: 100.00,
			ledgAmount: 100.00,
			pct:        0.0,
			abs:        0.0,
			want:       1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				AmountTolerancePercent:  tt.pct,
				AmountToleranceAbsolute: decimal.NewFromFloat(tt.abs),
			}

			bank := bankRecord("B1", tt.bankAmount, day(15), "")
			ledger := ledgerRecord("L1", tt.ledgAmount, day(15), "")

			got := scorer.amountScore(bank, ledger, config)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("amountScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_DateScore(t *testing.T) {
	scorer := NewScorer(nil)

	tests := []struct {
		name      string
		bankDay   int
		ledgerDay int
		tolerance int
		want      float64
	}{
		{"same day", 15, 15, 3, 1.0},
		{"one day apart with tolerance 3", 15, 16, 3, 1.0 - 1.0/3.0},
		{"at tolerance boundary", 15, 18, 3, 0.0},
		{"beyond tolerance clamps at zero", 15, 25, 3, 0.0},
		{"zero tolerance same day", 15, 15, 0, 1.0},
		{"zero tolerance different day", 15, 16, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{DateToleranceDays: tt.tolerance}
			bank := bankRecord("B1", 100, day(tt.bankDay), "")
			ledger := ledgerRecord("L1", 100, day(tt.ledgerDay), "")

			got := scorer.dateScore(bank, ledger, config)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("dateScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_CounterpartyScore(t *testing.T) {
	scorer := NewScorer(nil)

	tests := []struct {
		name   string
		bank   string
		ledger string
		want   float64
	}{
		{"both empty agree fully", "", "", 1.0},
		{"empty against non-empty", "", "Acme Corp", 0.0},
		{"non-empty against empty", "Acme Corp", "", 0.0},
		{"exact match", "Acme Corp", "Acme Corp", 1.0},
		{"case insensitive", "ACME CORP", "acme corp", 1.0},
		{"containment counts as full agreement", "Acme Corporation", "Acme Corp", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := bankRecord("B1", 100, day(15), tt.bank)
			ledger := ledgerRecord("L1", 100, day(15), tt.ledger)

			got := scorer.counterpartyScore(bank, ledger)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("counterpartyScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_CounterpartyScore_FallsBackToSimilarity(t *testing.T) {
	scorer := NewScorer(nil)

	bank := bankRecord("B1", 100, day(15), "acme")
	ledger := ledgerRecord("L1", 100, day(15), "acne")

	// No containment; expect the Levenshtein ratio of 0.75
	got := scorer.counterpartyScore(bank, ledger)
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("counterpartyScore() = %f, want 0.75", got)
	}
}

func TestScorer_ScoreMatch_Weights(t *testing.T) {
	scorer := NewScorer(nil)
	config := DefaultConfig()

	// Perfect agreement on all three fields
	bank := bankRecord("B1", 100.00, day(15), "Acme Corp")
	ledger := ledgerRecord("L1", 100.00, day(15), "Acme Corp")

	score := scorer.ScoreMatch(bank, ledger, config)
	if math.Abs(score.Overall-1.0) > 1e-9 {
		t.Errorf("Expected perfect overall score, got %f", score.Overall)
	}

	// Perfect amount and date, zero counterparty: 0.4 + 0.3 = 0.7
	bank = bankRecord("B2", 100.00, day(15), "Acme Corp")
	ledger = ledgerRecord("L2", 100.00, day(15), "")

	score = scorer.ScoreMatch(bank, ledger, config)
	if math.Abs(score.Overall-0.7) > 1e-9 {
		t.Errorf("Expected overall score 0.7, got %f", score.Overall)
	}
	if score.Amount != 1.0 || score.Date != 1.0 || score.Counterparty != 0.0 {
		t.Errorf("Unexpected sub-scores: %+v", score)
	}
}

func TestScore_Details(t *testing.T) {
	score := Score{Amount: 0.9, Date: 0.8, Counterparty: 0.7, Overall: 0.81}
	details := score.Details()

	expected := map[string]float64{
		"amount":       0.9,
		"date":         0.8,
		"counterparty": 0.7,
		"overall":      0.81,
	}

	for key, want := range expected {
		if got, ok := details[key]; !ok || got != want {
			t.Errorf("Details()[%q] = %f, want %f", key, got, want)
		}
	}
}
