package parsers

import (
	"context"
	"fmt"
	"io"

	"bookkeeping-service/internal/models"
)

// StatementParser parses bank-statement CSV exports into BankRecords
type StatementParser struct {
	*baseParser
	config *StatementFileConfig
}

// NewStatementParser creates a StatementParser for the given file layout
func NewStatementParser(config *StatementFileConfig) (*StatementParser, error) {
	if config == nil {
		config = DefaultStatementFileConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement file configuration: %w", err)
	}

	return &StatementParser{
		baseParser: newBaseParser(config.Delimiter, config.HasHeader, "statement-parser"),
		config:     config,
	}, nil
}

// ParseBankRecords parses a CSV file containing bank-statement line items
func (sp *StatementParser) ParseBankRecords(filePath string) ([]*models.BankRecord, *ParseStats, error) {
	return sp.ParseBankRecordsWithContext(context.Background(), filePath)
}

// ParseBankRecordsWithContext parses bank records with cancellation support
func (sp *StatementParser) ParseBankRecordsWithContext(ctx context.Context, filePath string) ([]*models.BankRecord, *ParseStats, error) {
	file, reader, err := sp.openFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	stats := NewParseStats()

	required := []string{
		sp.config.IDColumn,
		sp.config.AmountColumn,
		sp.config.DateColumn,
		sp.config.CounterpartyColumn,
		sp.config.DescriptionColumn,
	}
	if err := sp.readHeaders(reader, filePath, sp.config.ColumnAliases, required[:3]); err != nil {
		return nil, stats, err
	}

	var records []*models.BankRecord
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

		record, parseErr := sp.parseRecord(row, line)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		records = append(records, record)
		stats.RecordsValid++
	}

	stats.TotalLines = line

	sp.log.WithFields(map[string]interface{}{
		"file":   filePath,
		"parsed": stats.RecordsParsed,
		"valid":  stats.RecordsValid,
		"errors": stats.ErrorCount,
	}).Debug("Parsed bank statement file")

	return records, stats, nil
}

// parseRecord creates a BankRecord from one CSV row
func (sp *StatementParser) parseRecord(row []string, line int) (*models.BankRecord, *ParseError) {
	id := sp.field(row, sp.config.IDColumn)
	amountStr := sp.field(row, sp.config.AmountColumn)
	dateStr := sp.field(row, sp.config.DateColumn)
	counterparty := sp.field(row, sp.config.CounterpartyColumn)
	description := sp.field(row, sp.config.DescriptionColumn)

	record, err := models.CreateBankRecordFromCSV(id, amountStr, dateStr, counterparty, description)
	if err != nil {
		return nil, &ParseError{
			Line:    line,
			Field:   sp.config.IDColumn,
			Value:   id,
			Message: "invalid bank record",
			Err:     err,
		}
	}

	return record, nil
}
