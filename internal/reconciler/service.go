// Package reconciler orchestrates the complete reconciliation workflow:
// parsing the statement and ledger exports, running the matching engine,
// and classifying the residue into discrepancies for review.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"bookkeeping-service/internal/matcher"
	"bookkeeping-service/internal/models"
	"bookkeeping-service/internal/parsers"
	"bookkeeping-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Config holds configuration options for the reconciliation service
type Config struct {
	// Date range filtering options
	StartDate *time.Time
	EndDate   *time.Time

	// Validation options
	ValidateInputs bool

	// Output options
	IncludeMatches    bool
	IncludeStatistics bool
}

// DefaultConfig returns a default configuration for the reconciliation service
func DefaultConfig() *Config {
	return &Config{
		ValidateInputs:    true,
		IncludeMatches:    true,
		IncludeStatistics: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}

	return nil
}

// Request describes one reconciliation run over a pair of export files
type Request struct {
	StatementFile   string
	LedgerFile      string
	StartDate       *time.Time
	EndDate         *time.Time
	StatementConfig *parsers.StatementFileConfig
	LedgerConfig    *parsers.LedgerFileConfig
}

// Validate validates the reconciliation request
func (r *Request) Validate() error {
	if r.StatementFile == "" {
		return fmt.Errorf("statement file path is required")
	}

	if r.LedgerFile == "" {
		return fmt.Errorf("ledger file path is required")
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}

	return nil
}

// Summary provides a high-level overview of one reconciliation run
type Summary struct {
	TotalBankRecords       int `json:"total_bank_records"`
	TotalLedgerRecords     int `json:"total_ledger_records"`
	MatchedCount           int `json:"matched_count"`
	UnmatchedBankRecords   int `json:"unmatched_bank_records"`
	UnmatchedLedgerRecords int `json:"unmatched_ledger_records"`

	ExactMatches int     `json:"exact_matches"`
	FuzzyMatches int     `json:"fuzzy_matches"`
	MatchRate    float64 `json:"match_rate"`

	TotalBankAmount   decimal.Decimal `json:"total_bank_amount"`
	TotalLedgerAmount decimal.Decimal `json:"total_ledger_amount"`
	NetDifference     decimal.Decimal `json:"net_difference"`

	ProcessingDuration time.Duration `json:"processing_duration"`
}

// Stats contains processing statistics for one run
type Stats struct {
	StatementParseErrors int           `json:"statement_parse_errors"`
	LedgerParseErrors    int           `json:"ledger_parse_errors"`
	ParsingTime          time.Duration `json:"parsing_time"`
	MatchingTime         time.Duration `json:"matching_time"`
}

// Report contains the complete results of one reconciliation run
type Report struct {
	Summary         *Summary               `json:"summary"`
	Matches         []*matcher.Match       `json:"matches,omitempty"`
	UnmatchedBank   []*models.BankRecord   `json:"unmatched_bank_records,omitempty"`
	UnmatchedLedger []*models.LedgerRecord `json:"unmatched_ledger_records,omitempty"`
	Discrepancies   []*Discrepancy         `json:"discrepancies"`
	Stats           *Stats                 `json:"stats,omitempty"`
	ProcessedAt     time.Time              `json:"processed_at"`
}

// Service wires the parsers, the matching engine, and the discrepancy
// detector into one workflow.
type Service struct {
	statementParser *parsers.StatementParser
	ledgerParser    *parsers.LedgerParser
	engine          *matcher.Engine
	config          *Config
	log             logger.Logger
}

// NewService creates a reconciliation service
func NewService(
	statementConfig *parsers.StatementFileConfig,
	ledgerConfig *parsers.LedgerFileConfig,
	matchingConfig *matcher.Config,
	config *Config,
) (*Service, error) {

	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	statementParser, err := parsers.NewStatementParser(statementConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create statement parser: %w", err)
	}

	ledgerParser, err := parsers.NewLedgerParser(ledgerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger parser: %w", err)
	}

	engine, err := matcher.NewEngine(matchingConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create matching engine: %w", err)
	}

	return &Service{
		statementParser: statementParser,
		ledgerParser:    ledgerParser,
		engine:          engine,
		config:          config,
		log:             logger.GetGlobalLogger().WithComponent("reconciler"),
	}, nil
}

// Run performs the complete reconciliation workflow for one request
func (s *Service) Run(ctx context.Context, request *Request) (*Report, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	startTime := time.Now()
	report := &Report{
		ProcessedAt: startTime,
		Summary:     &Summary{},
		Stats:       &Stats{},
	}

	// Step 1: parse both exports
	parsingStart := time.Now()

	bankRecords, statementStats, err := s.statementParser.ParseBankRecordsWithContext(ctx, request.StatementFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement file %s: %w", request.StatementFile, err)
	}

	ledgerRecords, ledgerStats, err := s.ledgerParser.ParseLedgerRecordsWithContext(ctx, request.LedgerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger file %s: %w", request.LedgerFile, err)
	}

	report.Stats.ParsingTime = time.Since(parsingStart)
	report.Stats.StatementParseErrors = statementStats.ErrorCount
	report.Stats.LedgerParseErrors = ledgerStats.ErrorCount

	if s.config.ValidateInputs {
		bankRecords, ledgerRecords = s.filterValid(bankRecords, ledgerRecords, report.Stats)
	}

	// Step 2: date range filtering
	bankRecords, ledgerRecords = s.applyDateRange(bankRecords, ledgerRecords, request)

	s.log.WithFields(logger.Fields{
		"bank_records":   len(bankRecords),
		"ledger_records": len(ledgerRecords),
	}).Info("Starting reconciliation")

	// Step 3: matching
	matchingStart := time.Now()
	result := s.engine.MatchRecords(bankRecords, ledgerRecords)
	report.Stats.MatchingTime = time.Since(matchingStart)

	// Step 4: discrepancy classification
	report.Discrepancies = IdentifyDiscrepancies(result)

	// Step 5: assemble the report
	s.buildReport(report, result)
	report.Summary.ProcessingDuration = time.Since(startTime)

	s.log.WithFields(logger.Fields{
		"matched":       report.Summary.MatchedCount,
		"discrepancies": len(report.Discrepancies),
		"duration":      report.Summary.ProcessingDuration,
	}).Info("Reconciliation completed")

	return report, nil
}

// Reconcile runs the matching engine and discrepancy detector over already
// parsed records, bypassing file ingestion. Callers that load records from
// their own storage use this entry point.
func (s *Service) Reconcile(bankRecords []*models.BankRecord, ledgerRecords []*models.LedgerRecord) (*matcher.Result, []*Discrepancy) {
	result := s.engine.MatchRecords(bankRecords, ledgerRecords)
	return result, IdentifyDiscrepancies(result)
}

// filterValid drops records failing basic validation, counting them as
// parse errors.
func (s *Service) filterValid(
	bankRecords []*models.BankRecord,
	ledgerRecords []*models.LedgerRecord,
	stats *Stats,
) ([]*models.BankRecord, []*models.LedgerRecord) {

	validBank := make([]*models.BankRecord, 0, len(bankRecords))
	for _, record := range bankRecords {
		if err := record.Validate(); err != nil {
			stats.StatementParseErrors++
			continue
		}
		validBank = append(validBank, record)
	}

	validLedger := make([]*models.LedgerRecord, 0, len(ledgerRecords))
	for _, record := range ledgerRecords {
		if err := record.Validate(); err != nil {
			stats.LedgerParseErrors++
			continue
		}
		validLedger = append(validLedger, record)
	}

	return validBank, validLedger
}

// applyDateRange filters both record sets by the requested date window
func (s *Service) applyDateRange(
	bankRecords []*models.BankRecord,
	ledgerRecords []*models.LedgerRecord,
	request *Request,
) ([]*models.BankRecord, []*models.LedgerRecord) {

	startDate := request.StartDate
	endDate := request.EndDate

	if startDate == nil {
		startDate = s.config.StartDate
	}
	if endDate == nil {
		endDate = s.config.EndDate
	}

	if startDate == nil && endDate == nil {
		return bankRecords, ledgerRecords
	}

	filteredBank := make([]*models.BankRecord, 0, len(bankRecords))
	for _, record := range bankRecords {
		if withinDateRange(record.Date, startDate, endDate) {
			filteredBank = append(filteredBank, record)
		}
	}

	filteredLedger := make([]*models.LedgerRecord, 0, len(ledgerRecords))
	for _, record := range ledgerRecords {
		if withinDateRange(record.Date, startDate, endDate) {
			filteredLedger = append(filteredLedger, record)
		}
	}

	return filteredBank, filteredLedger
}

// withinDateRange checks if a date falls within the specified range
func withinDateRange(date time.Time, startDate, endDate *time.Time) bool {
	if startDate != nil && date.Before(models.DateOnly(*startDate)) {
		return false
	}

	if endDate != nil && date.After(models.DateOnly(*endDate)) {
		return false
	}

	return true
}

// buildReport fills the report from the match result
func (s *Service) buildReport(report *Report, result *matcher.Result) {
	if s.config.IncludeMatches {
		report.Matches = result.Matches
		report.UnmatchedBank = result.UnmatchedBankRecords
		report.UnmatchedLedger = result.UnmatchedLedgerRecords
	}

	summary := report.Summary
	summary.TotalBankRecords = result.TotalBankRecords
	summary.TotalLedgerRecords = result.TotalLedgerRecords
	summary.MatchedCount = result.MatchedCount()
	summary.UnmatchedBankRecords = len(result.UnmatchedBankRecords)
	summary.UnmatchedLedgerRecords = len(result.UnmatchedLedgerRecords)
	summary.MatchRate = result.MatchRate()

	for _, match := range result.Matches {
		switch match.Type {
		case matcher.MatchExact:
			summary.ExactMatches++
		case matcher.MatchFuzzy:
			summary.FuzzyMatches++
		}
	}

	totalBank := decimal.Zero
	for _, match := range result.Matches {
		totalBank = totalBank.Add(match.Bank.Amount)
	}
	for _, record := range result.UnmatchedBankRecords {
		totalBank = totalBank.Add(record.Amount)
	}

	totalLedger := decimal.Zero
	for _, match := range result.Matches {
		totalLedger = totalLedger.Add(match.Ledger.Amount)
	}
	for _, record := range result.UnmatchedLedgerRecords {
		totalLedger = totalLedger.Add(record.Amount)
	}

	summary.TotalBankAmount = totalBank
	summary.TotalLedgerAmount = totalLedger
	summary.NetDifference = totalBank.Sub(totalLedger)

	if !s.config.IncludeStatistics {
		report.Stats = nil
	}
}

// Config returns the current service configuration
func (s *Service) Config() *Config {
	return s.config
}
