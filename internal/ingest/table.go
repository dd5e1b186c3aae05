// Package ingest turns uploaded lead files into normalized lead records.
package ingest

import (
	"path/filepath"
	"strings"

	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
)

// Supported file extensions, lower-case with the leading dot.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// Table is the raw content of an uploaded file: the header row and every
// non-empty data row, with cells trimmed and aligned to Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Record returns row i as a header to value mapping. Cells under an empty
// header are left out.
func (t *Table) Record(i int) map[string]string {
	record := make(map[string]string, len(t.Headers))
	if i < 0 || i >= len(t.Rows) {
		return record
	}
	row := t.Rows[i]
	for col, header := range t.Headers {
		if header == "" {
			continue
		}
		record[header] = cell(row, col)
	}
	return record
}

// ExtensionOf returns the lower-cased extension of filename.
func ExtensionOf(filename string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

// IsSupportedExtension reports whether ext can be parsed.
func IsSupportedExtension(ext string) bool {
	switch ext {
	case ExtCSV, ExtXLSX, ExtXLS:
		return true
	}
	return false
}

// UnsupportedFileType builds the error returned for extensions outside the
// supported set.
func UnsupportedFileType(ext string) error {
	return pkgerrors.New(pkgerrors.CodeUnsupportedFileType, "unsupported file type").
		WithDetails(map[string]any{"extension": ext, "allowed": []string{ExtCSV, ExtXLSX, ExtXLS}})
}

// Parse reads the file at path according to ext. Unsupported extensions fail
// before the file is opened; malformed files fail with a parse error and no rows.
func Parse(path, ext string) (*Table, error) {
	switch ext {
	case ExtCSV:
		return ParseCSV(path)
	case ExtXLSX:
		return ParseXLSX(path)
	case ExtXLS:
		return ParseXLS(path)
	default:
		return nil, UnsupportedFileType(ext)
	}
}

func parseError(err error, format string) error {
	return pkgerrors.Wrap(pkgerrors.CodeParse, err, "failed to parse "+format+" file").
		WithDetails(map[string]any{"error": err.Error()})
}

// newTable builds a Table from raw rows: the first non-blank row becomes the
// header and rows whose cells are all blank are skipped.
func newTable(raw [][]string) *Table {
	table := &Table{}
	for len(raw) > 0 && blank(trimAll(raw[0])) {
		raw = raw[1:]
	}
	if len(raw) == 0 {
		return table
	}
	table.Headers = trimAll(raw[0])
	if len(table.Headers) > 0 {
		table.Headers[0] = strings.TrimPrefix(table.Headers[0], "\ufeff")
	}
	for _, row := range raw[1:] {
		cells := trimAll(row)
		if blank(cells) {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
