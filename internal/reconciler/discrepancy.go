package reconciler

import (
	"fmt"

	"bookkeeping-service/internal/matcher"
	"bookkeeping-service/internal/models"

	"github.com/shopspring/decimal"
)

// DiscrepancyType classifies an anomaly arising from reconciliation
type DiscrepancyType string

const (
	// DiscrepancyAmountMismatch marks a fuzzy match whose bank and ledger
	// amounts differ by more than one cent.
	DiscrepancyAmountMismatch DiscrepancyType = "amount_mismatch"

	// DiscrepancyMissingLedgerRecord marks a bank record with no
	// corresponding ledger entry.
	DiscrepancyMissingLedgerRecord DiscrepancyType = "missing_ledger_record"

	// DiscrepancyMissingBankRecord marks a ledger entry with no
	// corresponding bank record.
	DiscrepancyMissingBankRecord DiscrepancyType = "missing_bank_record"
)

// Discrepancy represents a single classified anomaly for manual review
type Discrepancy struct {
	Type        DiscrepancyType      `json:"type"`
	Bank        *models.BankRecord   `json:"bank_record,omitempty"`
	Ledger      *models.LedgerRecord `json:"ledger_record,omitempty"`
	Difference  decimal.Decimal      `json:"difference,omitempty"`
	Description string               `json:"description"`
}

// amountMismatchThreshold is one cent: fuzzy matches whose amounts differ
// by no more than this are treated as agreeing.
var amountMismatchThreshold = decimal.NewFromFloat(0.01)

// IdentifyDiscrepancies derives the discrepancy list from a match result.
// It has no hidden state and performs no I/O; calling it again on the same
// result produces the same list in the same order:
//  1. Amount mismatches on fuzzy matches, in match order.
//  2. Missing ledger records, in unmatched bank record order.
//  3. Missing bank records, in unmatched ledger record order.
//
// Exact matches never produce discrepancies.
func IdentifyDiscrepancies(result *matcher.Result) []*Discrepancy {
	discrepancies := make([]*Discrepancy, 0)

	for _, match := range result.Matches {
		if match.Type != matcher.MatchFuzzy {
			continue
		}

		difference := match.Bank.Amount.Sub(match.Ledger.Amount)
		if difference.Abs().LessThanOrEqual(amountMismatchThreshold) {
			continue
		}

		discrepancies = append(discrepancies, &Discrepancy{
			Type:       DiscrepancyAmountMismatch,
			Bank:       match.Bank,
			Ledger:     match.Ledger,
			Difference: difference,
			Description: fmt.Sprintf("amount mismatch between bank record %s (%s) and ledger record %s (%s): difference %s",
				match.Bank.ID, match.Bank.Amount.String(),
				match.Ledger.ID, match.Ledger.Amount.String(),
				difference.String()),
		})
	}

	for _, bank := range result.UnmatchedBankRecords {
		discrepancies = append(discrepancies, &Discrepancy{
			Type: DiscrepancyMissingLedgerRecord,
			Bank: bank,
			Description: fmt.Sprintf("bank record %s (%s on %s) has no matching ledger entry",
				bank.ID, bank.Amount.String(), bank.Date.Format("2006-01-02")),
		})
	}

	for _, ledger := range result.UnmatchedLedgerRecords {
		discrepancies = append(discrepancies, &Discrepancy{
			Type:   DiscrepancyMissingBankRecord,
			Ledger: ledger,
			Description: fmt.Sprintf("ledger record %s (%s on %s) has no matching bank record",
				ledger.ID, ledger.Amount.String(), ledger.Date.Format("2006-01-02")),
		})
	}

	return discrepancies
}
