// Package export writes tables to spreadsheet and delimited files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"

	"github.com/salmonumbrella/tabkit/internal/table"
)

// DefaultSheet is the worksheet name used when Options.Sheet is empty.
const DefaultSheet = "Sheet1"

// Options controls export output.
type Options struct {
	// Sheet names the xlsx worksheet.
	Sheet string
	// Delimiter separates csv cells. It must be a single character.
	Delimiter string
	// OmitHeaders skips the header row.
	OmitHeaders bool
}

// Kind is an export file type.
type Kind string

const (
	KindXLSX Kind = "xlsx"
	KindCSV  Kind = "csv"
)

// KindFromPath infers the export type from a file extension.
func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return KindXLSX, nil
	case ".csv", ".tsv", ".txt":
		return KindCSV, nil
	default:
		return "", fmt.Errorf("unsupported export file %q (expected .xlsx or .csv)", path)
	}
}

// WriteFile renders t in the format implied by path and replaces path
// atomically.
func WriteFile(path string, t *table.Table, opts Options) error {
	kind, err := KindFromPath(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") && opts.Delimiter == "" {
		opts.Delimiter = "\t"
	}

	var buf bytes.Buffer
	switch kind {
	case KindXLSX:
		err = WriteXLSX(&buf, t, opts)
	default:
		err = WriteCSV(&buf, t, opts)
	}
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes t as a single-sheet workbook. Numeric cells are stored as
// numbers.
func WriteXLSX(w io.Writer, t *table.Table, opts Options) error {
	if err := t.Err(); err != nil {
		return err
	}

	sheet := strings.TrimSpace(opts.Sheet)
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	rowNum := 1
	if !opts.OmitHeaders {
		headers := t.Headers()
		cells := make([]interface{}, len(headers))
		for i, h := range headers {
			cells[i] = h
		}
		if err := setRow(f, sheet, rowNum, cells); err != nil {
			return err
		}
		rowNum++
	}

	for _, row := range t.Rows() {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v.Interface()
		}
		if err := setRow(f, sheet, rowNum, cells); err != nil {
			return err
		}
		rowNum++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

// WriteCSV writes t as delimited text, quoting cells where needed.
func WriteCSV(w io.Writer, t *table.Table, opts Options) error {
	if err := t.Err(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if opts.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return fmt.Errorf("csv delimiter must be a single character, got %q", opts.Delimiter)
		}
		cw.Comma = r
	}

	if !opts.OmitHeaders {
		if err := cw.Write(t.Headers()); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	for _, row := range t.StringRows() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
