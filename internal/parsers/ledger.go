package parsers

import (
	"context"
	"fmt"
	"io"

	"bookkeeping-service/internal/models"
)

// LedgerParser parses ledger CSV exports into LedgerRecords
type LedgerParser struct {
	*baseParser
	config *LedgerFileConfig
}

// NewLedgerParser creates a LedgerParser for the given file layout
func NewLedgerParser(config *LedgerFileConfig) (*LedgerParser, error) {
	if config == nil {
		config = DefaultLedgerFileConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger file configuration: %w", err)
	}

	return &LedgerParser{
		baseParser: newBaseParser(config.Delimiter, config.HasHeader, "ledger-parser"),
		config:     config,
	}, nil
}

// ParseLedgerRecords parses a CSV file containing ledger entries
func (lp *LedgerParser) ParseLedgerRecords(filePath string) ([]*models.LedgerRecord, *ParseStats, error) {
	return lp.ParseLedgerRecordsWithContext(context.Background(), filePath)
}

// ParseLedgerRecordsWithContext parses ledger records with cancellation support
func (lp *LedgerParser) ParseLedgerRecordsWithContext(ctx context.Context, filePath string) ([]*models.LedgerRecord, *ParseStats, error) {
	file, reader, err := lp.openFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	stats := NewParseStats()

	required := []string{
		lp.config.IDColumn,
		lp.config.AmountColumn,
		lp.config.DateColumn,
		lp.config.CounterpartyColumn,
		lp.config.DescriptionColumn,
	}
	if err := lp.readHeaders(reader, filePath, lp.config.ColumnAliases, required[:3]); err != nil {
		return nil, stats, err
	}

	var records []*models.LedgerRecord
	line := 1

	for {
		if cancelled(ctx) {
			return records, stats, ctx.Err()
		}

		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			line++
			stats.AddError(&ParseError{Line: line, Message: "failed to read record", Err: err})
			continue
		}
		line++
		stats.RecordsParsed++

		record, parseErr := lp.parseRecord(row, line)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		records = append(records, record)
		stats.RecordsValid++
	}

	stats.TotalLines = line

	lp.log.WithFields(map[string]interface{}{
		"file":   filePath,
		"parsed": stats.RecordsParsed,
		"valid":  stats.RecordsValid,
		"errors": stats.ErrorCount,
	}).Debug("Parsed ledger file")

	return records, stats, nil
}

// parseRecord creates a LedgerRecord from one CSV row
func (lp *LedgerParser) parseRecord(row []string, line int) (*models.LedgerRecord, *ParseError) {
	id := lp.field(row, lp.config.IDColumn)
	amountStr := lp.field(row, lp.config.AmountColumn)
	dateStr := lp.field(row, lp.config.DateColumn)
	counterparty := lp.field(row, lp.config.CounterpartyColumn)
	description := lp.field(row, lp.config.DescriptionColumn)

	record, err := models.CreateLedgerRecordFromCSV(id, amountStr, dateStr, counterparty, description)
	if err != nil {
		return nil, &ParseError{
			Line:    line,
			Field:   lp.config.IDColumn,
			Value:   id,
			Message: "invalid ledger record",
			Err:     err,
		}
	}

	return record, nil
}
