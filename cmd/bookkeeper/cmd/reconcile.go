package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bookkeeping-service/cmd/bookkeeper/config"
	"bookkeeping-service/internal/reconciler"
	"bookkeeping-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	statementFile string
	ledgerFile    string
	outputFormat  string
	outputFile    string
	startDate     string
	endDate       string

	dateTolerance          int
	amountTolerancePct     float64
	amountToleranceAbs     float64
	counterpartyThreshold  float64
	enableFuzzyMatching    bool
	includeMatchedInOutput bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a bank statement against the ledger",
	Long: `Reconcile compares bank statement records with ledger records to
identify matches, discrepancies, and unmatched entries.

This command requires:
- A bank statement export file (CSV format)
- A ledger export file (CSV format)

Examples:
  # Basic reconciliation
  bookkeeper reconcile --statement-file statement.csv --ledger-file ledger.csv

  # Date filtering with custom tolerances
  bookkeeper reconcile -s statement.csv -l ledger.csv \
    --start-date 2026-01-01 --end-date 2026-01-31 \
    --date-tolerance 2 --amount-tolerance 0.05

  # JSON report written to a file
  bookkeeper reconcile -s statement.csv -l ledger.csv \
    --output-format json --output-file report.json

  # Exact matching only
  bookkeeper reconcile -s statement.csv -l ledger.csv --fuzzy=false`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Required flags
	reconcileCmd.Flags().StringVarP(&statementFile, "statement-file", "s", "", "path to bank statement CSV file (required)")
	reconcileCmd.Flags().StringVarP(&ledgerFile, "ledger-file", "l", "", "path to ledger CSV file (required)")

	// Output flags
	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	reconcileCmd.Flags().BoolVar(&includeMatchedInOutput, "include-matches", false, "include matched records in the report")

	// Date filtering flags
	reconcileCmd.Flags().StringVar(&startDate, "start-date", "", "filter start date (YYYY-MM-DD)")
	reconcileCmd.Flags().StringVar(&endDate, "end-date", "", "filter end date (YYYY-MM-DD)")

	// Matching configuration flags
	reconcileCmd.Flags().IntVarP(&dateTolerance, "date-tolerance", "d", 3, "date matching tolerance in days")
	reconcileCmd.Flags().Float64VarP(&amountTolerancePct, "amount-tolerance", "a", 0.02, "amount tolerance as a fraction (0.02 = 2%)")
	reconcileCmd.Flags().Float64Var(&amountToleranceAbs, "amount-tolerance-abs", 1.00, "absolute amount tolerance floor")
	reconcileCmd.Flags().Float64Var(&counterpartyThreshold, "counterparty-threshold", 0.8, "counterparty name similarity threshold (0.0-1.0)")
	reconcileCmd.Flags().BoolVar(&enableFuzzyMatching, "fuzzy", true, "enable fuzzy matching after the exact pass")

	reconcileCmd.MarkFlagRequired("statement-file")
	reconcileCmd.MarkFlagRequired("ledger-file")

	// Bind flags to viper
	viper.BindPFlag("statement-file", reconcileCmd.Flags().Lookup("statement-file"))
	viper.BindPFlag("ledger-file", reconcileCmd.Flags().Lookup("ledger-file"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("include-matches", reconcileCmd.Flags().Lookup("include-matches"))
	viper.BindPFlag("start-date", reconcileCmd.Flags().Lookup("start-date"))
	viper.BindPFlag("end-date", reconcileCmd.Flags().Lookup("end-date"))
	viper.BindPFlag("date-tolerance", reconcileCmd.Flags().Lookup("date-tolerance"))
	viper.BindPFlag("amount-tolerance", reconcileCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("amount-tolerance-abs", reconcileCmd.Flags().Lookup("amount-tolerance-abs"))
	viper.BindPFlag("counterparty-threshold", reconcileCmd.Flags().Lookup("counterparty-threshold"))
	viper.BindPFlag("fuzzy", reconcileCmd.Flags().Lookup("fuzzy"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	statementFile = viper.GetString("statement-file")
	ledgerFile = viper.GetString("ledger-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	includeMatchedInOutput = viper.GetBool("include-matches")
	startDate = viper.GetString("start-date")
	endDate = viper.GetString("end-date")
	dateTolerance = viper.GetInt("date-tolerance")
	amountTolerancePct = viper.GetFloat64("amount-tolerance")
	amountToleranceAbs = viper.GetFloat64("amount-tolerance-abs")
	counterpartyThreshold = viper.GetFloat64("counterparty-threshold")
	enableFuzzyMatching = viper.GetBool("fuzzy")

	if statementFile == "" {
		return fmt.Errorf("statement-file is required")
	}
	if ledgerFile == "" {
		return fmt.Errorf("ledger-file is required")
	}

	if err := validateFileExists(statementFile, "bank statement file"); err != nil {
		return err
	}
	if err := validateFileExists(ledgerFile, "ledger file"); err != nil {
		return err
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return fmt.Errorf("invalid start date format. Use YYYY-MM-DD: %w", err)
		}
	}
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			return fmt.Errorf("invalid end date format. Use YYYY-MM-DD: %w", err)
		}
	}

	if startDate != "" && endDate != "" {
		start, _ := time.Parse("2006-01-02", startDate)
		end, _ := time.Parse("2006-01-02", endDate)
		if start.After(end) {
			return fmt.Errorf("start date cannot be after end date")
		}
	}

	if dateTolerance < 0 {
		return fmt.Errorf("date tolerance cannot be negative")
	}
	if amountTolerancePct < 0.0 {
		return fmt.Errorf("amount tolerance cannot be negative")
	}
	if amountToleranceAbs < 0.0 {
		return fmt.Errorf("absolute amount tolerance cannot be negative")
	}
	if counterpartyThreshold < 0.0 || counterpartyThreshold > 1.0 {
		return fmt.Errorf("counterparty threshold must be between 0.0 and 1.0")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Statement file: %s\n", statementFile)
		fmt.Fprintf(os.Stderr, "Ledger file: %s\n", ledgerFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Create configurations
	statementConfig := config.CreateStatementConfig(statementFile)
	ledgerConfig := config.CreateLedgerConfig()
	matchingConfig := config.CreateMatchingConfig(config.MatchingOptions{
		DateToleranceDays:       dateTolerance,
		AmountTolerancePercent:  amountTolerancePct,
		AmountToleranceAbsolute: amountToleranceAbs,
		CounterpartyThreshold:   counterpartyThreshold,
		EnableFuzzyMatching:     enableFuzzyMatching,
	})
	serviceConfig := config.CreateServiceConfig()

	service, err := reconciler.NewService(statementConfig, ledgerConfig, matchingConfig, serviceConfig)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation service: %w", err)
	}

	// Parse date range
	var startTime, endTime *time.Time
	if startDate != "" {
		t, _ := time.Parse("2006-01-02", startDate)
		startTime = &t
	}
	if endDate != "" {
		t, _ := time.Parse("2006-01-02", endDate)
		endTime = &t
	}

	request := &reconciler.Request{
		StatementFile:   statementFile,
		LedgerFile:      ledgerFile,
		StartDate:       startTime,
		EndDate:         endTime,
		StatementConfig: statementConfig,
		LedgerConfig:    ledgerConfig,
	}

	report, err := service.Run(ctx, request)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat, includeMatchedInOutput)
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(report, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d bank records and %d ledger records.\n",
			report.Summary.TotalBankRecords, report.Summary.TotalLedgerRecords)
		fmt.Fprintf(os.Stderr, "Found %d matches, %d unmatched bank records, %d unmatched ledger records.\n",
			report.Summary.MatchedCount, report.Summary.UnmatchedBankRecords, report.Summary.UnmatchedLedgerRecords)
		if len(report.Discrepancies) > 0 {
			fmt.Fprintf(os.Stderr, "Detected %d discrepancies.\n", len(report.Discrepancies))
		}
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", report.Summary.ProcessingDuration)
	}

	return nil
}
