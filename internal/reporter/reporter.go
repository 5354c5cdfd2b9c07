// Package reporter renders reconciliation reports in several output formats.
//
// Supported output formats:
//   - Console: Human-readable tabular output for terminal display
//   - JSON: Structured data format for programmatic consumption
//   - CSV: Comma-separated format for spreadsheet applications
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(reporter.DefaultReportConfig())
//	err = generator.GenerateReport(report, os.Stdout)
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"bookkeeping-service/internal/matcher"
	"bookkeeping-service/internal/models"
	"bookkeeping-service/internal/reconciler"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeMatches       bool `json:"include_matches"`
	IncludeUnmatched     bool `json:"include_unmatched"`
	IncludeDiscrepancies bool `json:"include_discrepancies"`
	IncludeStats         bool `json:"include_stats"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`

	// Sorting options
	SortByAmount bool `json:"sort_by_amount"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:               FormatConsole,
		IncludeMatches:       false,
		IncludeUnmatched:     true,
		IncludeDiscrepancies: true,
		IncludeStats:         true,
		CSVDelimiter:         ',',
		CSVHeaders:           true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.CSVDelimiter == 0 {
		return fmt.Errorf("CSV delimiter cannot be empty")
	}

	return nil
}

// ReportGenerator renders reconciliation reports in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders a report and writes it to the provided writer
func (rg *ReportGenerator) GenerateReport(report *reconciler.Report, writer io.Writer) error {
	if report == nil {
		return fmt.Errorf("reconciliation report cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(report, writer)
	case FormatJSON:
		return rg.generateJSONReport(report, writer)
	case FormatCSV:
		return rg.generateCSVReport(report, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(report *reconciler.Report, writer io.Writer) error {
	fmt.Fprintf(writer, "RECONCILIATION REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", report.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Processing Duration: %v\n\n", report.Summary.ProcessingDuration)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	rg.printSummaryTable(report.Summary, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== FINANCIAL SUMMARY ===\n")
	rg.printFinancialSummary(report.Summary, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeMatches && len(report.Matches) > 0 {
		fmt.Fprintf(writer, "=== MATCHED RECORDS ===\n")
		rg.printMatches(report.Matches, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatched && len(report.UnmatchedBank) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED BANK RECORDS ===\n")
		rg.printUnmatchedBank(report.UnmatchedBank, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatched && len(report.UnmatchedLedger) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED LEDGER RECORDS ===\n")
		rg.printUnmatchedLedger(report.UnmatchedLedger, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeDiscrepancies && len(report.Discrepancies) > 0 {
		fmt.Fprintf(writer, "=== DISCREPANCIES ===\n")
		rg.printDiscrepancies(report.Discrepancies, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeStats && report.Stats != nil {
		fmt.Fprintf(writer, "=== PROCESSING STATISTICS ===\n")
		rg.printStats(report.Stats, writer)
	}

	return nil
}

// generateJSONReport generates a structured JSON report
func (rg *ReportGenerator) generateJSONReport(report *reconciler.Report, writer io.Writer) error {
	filtered := rg.filterReportForOutput(report)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(filtered)
}

// generateCSVReport generates a CSV report with record details
func (rg *ReportGenerator) generateCSVReport(report *reconciler.Report, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Type",
			"Bank_ID",
			"Ledger_ID",
			"Amount",
			"Date",
			"Counterparty",
			"Match_Type",
			"Confidence",
			"Difference",
			"Notes",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	if rg.config.IncludeMatches {
		for _, match := range report.Matches {
			record := []string{
				"Matched",
				match.Bank.ID,
				match.Ledger.ID,
				match.Bank.Amount.String(),
				match.Bank.Date.Format("2006-01-02"),
				match.Bank.Counterparty,
				match.Type.String(),
				fmt.Sprintf("%.2f", match.Confidence),
				match.Bank.Amount.Sub(match.Ledger.Amount).String(),
				"",
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write matched record: %w", err)
			}
		}
	}

	if rg.config.IncludeUnmatched {
		for _, bank := range report.UnmatchedBank {
			record := []string{
				"Unmatched Bank Record",
				bank.ID,
				"",
				bank.Amount.String(),
				bank.Date.Format("2006-01-02"),
				bank.Counterparty,
				"",
				"",
				"",
				"No matching ledger record found",
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write unmatched bank record: %w", err)
			}
		}

		for _, ledger := range report.UnmatchedLedger {
			record := []string{
				"Unmatched Ledger Record",
				"",
				ledger.ID,
				ledger.Amount.String(),
				ledger.Date.Format("2006-01-02"),
				ledger.Counterparty,
				"",
				"",
				"",
				"No matching bank record found",
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write unmatched ledger record: %w", err)
			}
		}
	}

	if rg.config.IncludeDiscrepancies {
		for _, d := range report.Discrepancies {
			bankID := ""
			ledgerID := ""
			amount := ""
			date := ""
			counterparty := ""
			if d.Bank != nil {
				bankID = d.Bank.ID
				amount = d.Bank.Amount.String()
				date = d.Bank.Date.Format("2006-01-02")
				counterparty = d.Bank.Counterparty
			}
			if d.Ledger != nil {
				ledgerID = d.Ledger.ID
				if amount == "" {
					amount = d.Ledger.Amount.String()
					date = d.Ledger.Date.Format("2006-01-02")
					counterparty = d.Ledger.Counterparty
				}
			}
			record := []string{
				"Discrepancy",
				bankID,
				ledgerID,
				amount,
				date,
				counterparty,
				string(d.Type),
				"",
				d.Difference.String(),
				d.Description,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write discrepancy record: %w", err)
			}
		}
	}

	return nil
}

// Helper methods for console output formatting

func (rg *ReportGenerator) printSummaryTable(summary *reconciler.Summary, writer io.Writer) {
	fmt.Fprintf(writer, "Bank Records:\n")
	fmt.Fprintf(writer, "  Total:     %d\n", summary.TotalBankRecords)
	fmt.Fprintf(writer, "  Matched:   %d (%.1f%%)\n",
		summary.MatchedCount,
		rg.calculatePercentage(summary.MatchedCount, summary.TotalBankRecords))
	fmt.Fprintf(writer, "  Unmatched: %d (%.1f%%)\n",
		summary.UnmatchedBankRecords,
		rg.calculatePercentage(summary.UnmatchedBankRecords, summary.TotalBankRecords))

	fmt.Fprintf(writer, "\nLedger Records:\n")
	fmt.Fprintf(writer, "  Total:     %d\n", summary.TotalLedgerRecords)
	fmt.Fprintf(writer, "  Matched:   %d (%.1f%%)\n",
		summary.MatchedCount,
		rg.calculatePercentage(summary.MatchedCount, summary.TotalLedgerRecords))
	fmt.Fprintf(writer, "  Unmatched: %d (%.1f%%)\n",
		summary.UnmatchedLedgerRecords,
		rg.calculatePercentage(summary.UnmatchedLedgerRecords, summary.TotalLedgerRecords))

	fmt.Fprintf(writer, "\nMatch Quality:\n")
	fmt.Fprintf(writer, "  Exact Matches: %d\n", summary.ExactMatches)
	fmt.Fprintf(writer, "  Fuzzy Matches: %d\n", summary.FuzzyMatches)
	fmt.Fprintf(writer, "  Match Rate:    %.1f%%\n", summary.MatchRate*100)
}

func (rg *ReportGenerator) printFinancialSummary(summary *reconciler.Summary, writer io.Writer) {
	fmt.Fprintf(writer, "Total Bank Amount:   %s\n", summary.TotalBankAmount.StringFixed(2))
	fmt.Fprintf(writer, "Total Ledger Amount: %s\n", summary.TotalLedgerAmount.StringFixed(2))
	fmt.Fprintf(writer, "Net Difference:      %s\n", summary.NetDifference.StringFixed(2))

	if !summary.NetDifference.IsZero() && !summary.TotalBankAmount.IsZero() {
		differencePct := summary.NetDifference.Abs().Div(summary.TotalBankAmount.Abs()).Mul(decimal.NewFromInt(100))
		fmt.Fprintf(writer, "Difference Percentage: %s%%\n", differencePct.StringFixed(2))
	}
}

func (rg *ReportGenerator) printMatches(matches []*matcher.Match, writer io.Writer) {
	fmt.Fprintf(writer, "Total Matches: %d\n\n", len(matches))

	for _, match := range matches {
		fmt.Fprintf(writer, "  %s <-> %s  %s  %s  [%s, %.2f]\n",
			match.Bank.ID,
			match.Ledger.ID,
			match.Bank.Amount.StringFixed(2),
			match.Bank.Date.Format("2006-01-02"),
			match.Type,
			match.Confidence)
	}
}

func (rg *ReportGenerator) printUnmatchedBank(records []*models.BankRecord, writer io.Writer) {
	if rg.config.SortByAmount {
		sorted := make([]*models.BankRecord, len(records))
		copy(sorted, records)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Amount.Abs().GreaterThan(sorted[j].Amount.Abs())
		})
		records = sorted
	}

	fmt.Fprintf(writer, "Total Unmatched Bank Records: %d\n\n", len(records))

	for _, record := range records {
		fmt.Fprintf(writer, "  %-12s %12s  %s  %s\n",
			record.ID,
			record.Amount.StringFixed(2),
			record.Date.Format("2006-01-02"),
			record.Counterparty)
	}
}

func (rg *ReportGenerator) printUnmatchedLedger(records []*models.LedgerRecord, writer io.Writer) {
	if rg.config.SortByAmount {
		sorted := make([]*models.LedgerRecord, len(records))
		copy(sorted, records)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Amount.Abs().GreaterThan(sorted[j].Amount.Abs())
		})
		records = sorted
	}

	fmt.Fprintf(writer, "Total Unmatched Ledger Records: %d\n\n", len(records))

	for _, record := range records {
		fmt.Fprintf(writer, "  %-12s %12s  %s  %s\n",
			record.ID,
			record.Amount.StringFixed(2),
			record.Date.Format("2006-01-02"),
			record.Counterparty)
	}
}

func (rg *ReportGenerator) printDiscrepancies(discrepancies []*reconciler.Discrepancy, writer io.Writer) {
	fmt.Fprintf(writer, "Total Discrepancies: %d\n\n", len(discrepancies))

	for _, d := range discrepancies {
		switch d.Type {
		case reconciler.DiscrepancyAmountMismatch:
			fmt.Fprintf(writer, "  [AMOUNT MISMATCH] %s <-> %s: difference %s\n",
				d.Bank.ID, d.Ledger.ID, d.Difference.StringFixed(2))
		case reconciler.DiscrepancyMissingLedgerRecord:
			fmt.Fprintf(writer, "  [MISSING LEDGER]  bank %s (%s on %s) has no ledger entry\n",
				d.Bank.ID, d.Bank.Amount.StringFixed(2), d.Bank.Date.Format("2006-01-02"))
		case reconciler.DiscrepancyMissingBankRecord:
			fmt.Fprintf(writer, "  [MISSING BANK]    ledger %s (%s on %s) has no bank entry\n",
				d.Ledger.ID, d.Ledger.Amount.StringFixed(2), d.Ledger.Date.Format("2006-01-02"))
		}
	}
}

func (rg *ReportGenerator) printStats(stats *reconciler.Stats, writer io.Writer) {
	fmt.Fprintf(writer, "Statement Parse Errors: %d\n", stats.StatementParseErrors)
	fmt.Fprintf(writer, "Ledger Parse Errors:    %d\n", stats.LedgerParseErrors)
	fmt.Fprintf(writer, "Parsing Time:           %v\n", stats.ParsingTime)
	fmt.Fprintf(writer, "Matching Time:          %v\n", stats.MatchingTime)
}

// filterReportForOutput creates a copy of the report honoring the detail options
func (rg *ReportGenerator) filterReportForOutput(report *reconciler.Report) *reconciler.Report {
	filtered := &reconciler.Report{
		Summary:       report.Summary,
		Discrepancies: report.Discrepancies,
		ProcessedAt:   report.ProcessedAt,
	}

	if rg.config.IncludeMatches {
		filtered.Matches = report.Matches
	}

	if rg.config.IncludeUnmatched {
		filtered.UnmatchedBank = report.UnmatchedBank
		filtered.UnmatchedLedger = report.UnmatchedLedger
	}

	if rg.config.IncludeStats {
		filtered.Stats = report.Stats
	}

	if !rg.config.IncludeDiscrepancies {
		filtered.Discrepancies = nil
	}

	return filtered
}

func (rg *ReportGenerator) calculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}
