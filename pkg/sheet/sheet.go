// Package sheet provides the spreadsheet-shaped exchange format for preset banks
package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fcbtools/fcb1010/pkg/preset"
)

// Format represents a preset exchange file format
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the exchange format of a file based on extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".csv", ".tsv":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// header is the fixed 13-column layout shared with the spreadsheet side
var header = []string{
	"Preset Number", "Name",
	"PC1 Program", "PC1 Channel",
	"PC2 Program", "PC2 Channel",
	"CC1 Controller", "CC1 Value", "CC1 Channel",
	"CC2 Controller", "CC2 Value", "CC2 Channel",
	"Notes",
}

// Header returns a copy of the fixed column header row
func Header() []string {
	h := make([]string, len(header))
	copy(h, header)
	return h
}

// RowError records a row that could not be imported. The batch continues
// past it; callers decide whether to report or ignore.
type RowError struct {
	Line int // 1-based line number in the sheet, header included
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Export flattens a bank to sheet rows, header first
func Export(b *preset.Bank) [][]string {
	rows := make([][]string, 0, b.Len()+1)
	rows = append(rows, Header())
	for _, p := range b.Presets() {
		rows = append(rows, p.ToRow())
	}
	return rows
}

// Import rebuilds a bank from sheet rows. A leading header row is skipped.
// Malformed rows are collected as RowErrors and skipped; the rest of the
// batch still imports.
func Import(rows [][]string) (*preset.Bank, []RowError) {
	b := preset.NewBank()
	var rowErrs []RowError

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		p, err := preset.FromRow(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: i + 1, Err: err})
			continue
		}
		b.Add(p)
	}
	return b, rowErrs
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header[0])
}

// ReadCSVFile imports a bank from a CSV file
func ReadCSVFile(filename string) (*preset.Bank, []RowError, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows edited by hand are often ragged
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv file: %w", err)
	}

	b, rowErrs := Import(rows)
	return b, rowErrs, nil
}

// WriteCSVFile exports a bank to a CSV file, header included
func WriteCSVFile(b *preset.Bank, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(Export(b)); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	w.Flush()
	return w.Error()
}
