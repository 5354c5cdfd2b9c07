// Package parsers provides CSV ingestion for bank-statement exports and
// ledger exports.
//
// Parsing is line-tolerant: invalid lines are accumulated as errors in
// ParseStats while the remaining records are still returned, so one bad row
// in a statement export does not abort a reconciliation run. Both parsers
// support context cancellation for large files.
package parsers

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	apperrors "bookkeeping-service/pkg/errors"
	"bookkeeping-service/pkg/logger"
)

// ParseError represents an error that occurred on a single CSV line
type ParseError struct {
	Line    int
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at line %d (%s='%s'): %s: %v",
			e.Line, e.Field, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error at line %d (%s='%s'): %s",
		e.Line, e.Field, e.Value, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseStats accumulates per-run parsing statistics
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	ErrorCount    int
	Errors        []*ParseError
}

// NewParseStats creates an empty ParseStats
func NewParseStats() *ParseStats {
	return &ParseStats{Errors: make([]*ParseError, 0)}
}

// AddError records a parse error
func (s *ParseStats) AddError(err *ParseError) {
	s.ErrorCount++
	s.Errors = append(s.Errors, err)
}

// HasErrors reports whether any line failed to parse
func (s *ParseStats) HasErrors() bool {
	return s.ErrorCount > 0
}

// baseParser holds the CSV machinery shared by the statement and ledger
// parsers: file opening, header resolution, and positional field access.
type baseParser struct {
	delimiter   rune
	hasHeader   bool
	headerIndex map[string]int
	log         logger.Logger
}

func newBaseParser(delimiter rune, hasHeader bool, component string) *baseParser {
	return &baseParser{
		delimiter: delimiter,
		hasHeader: hasHeader,
		log:       logger.GetGlobalLogger().WithComponent(component),
	}
}

// openFile opens a CSV file for reading, mapping OS errors onto the
// application error taxonomy.
func (bp *baseParser) openFile(filePath string) (*os.File, *csv.Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.FileError(apperrors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, nil, apperrors.FileError(apperrors.CodeFilePermission, filePath, err)
		}
		return nil, nil, apperrors.Wrap(err, apperrors.CategoryFile, apperrors.CodeFileNotFound,
			fmt.Sprintf("failed to open file: %s", filePath))
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = bp.delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	return file, reader, nil
}

// readHeaders consumes the header row (when present) and builds the column
// index, resolving bank-specific aliases onto canonical names. Required
// columns missing from the header fail the whole parse.
func (bp *baseParser) readHeaders(reader *csv.Reader, filePath string, aliases map[string]string, required []string) error {
	if !bp.hasHeader {
		// Positional layout: canonical columns in declaration order
		bp.headerIndex = make(map[string]int, len(required))
		for i, column := range required {
			bp.headerIndex[column] = i
		}
		return nil
	}

	headers, err := reader.Read()
	if err != nil {
		return apperrors.ParseError(apperrors.CodeInvalidFormat, filePath, 1, "", "", err)
	}

	bp.headerIndex = make(map[string]int, len(headers))
	for i, header := range headers {
		bp.headerIndex[resolveAlias(aliases, header)] = i
	}

	for _, column := range required {
		if _, ok := bp.headerIndex[column]; !ok {
			return apperrors.ParseError(apperrors.CodeMissingColumn, filePath, 1, column, "", nil)
		}
	}

	return nil
}

// field extracts a named column value from a CSV record. Optional columns
// absent from the file resolve to an empty string.
func (bp *baseParser) field(record []string, column string) string {
	index, ok := bp.headerIndex[column]
	if !ok || index >= len(record) {
		return ""
	}
	return record[index]
}

// cancelled reports whether the surrounding context has been cancelled
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
