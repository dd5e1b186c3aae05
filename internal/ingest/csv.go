package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseCSV reads a comma separated file whose first row is the header.
// Every data row must have as many fields as the header. Whitespace around
// delimiters and quotes is ignored.
func ParseCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, parseError(err, "csv")
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, parseError(err, "csv")
	}

	reader := csv.NewReader(bytes.NewReader(trimAfterQuotes(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var raw [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err, "csv")
		}
		raw = append(raw, record)
	}

	table := newTable(raw)
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			err := fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), len(table.Headers))
			return nil, parseError(err, "csv")
		}
	}
	return table, nil
}

// trimAfterQuotes drops spaces and tabs between a closing quote and the next
// delimiter or line break, which encoding/csv would reject. Anything else
// after a closing quote is left for the reader to report.
func trimAfterQuotes(data []byte) []byte {
	out := make([]byte, 0, len(data))
	fieldStart, quoted := true, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quoted:
			out = append(out, c)
			if c != '"' {
				continue
			}
			if i+1 < len(data) && data[i+1] == '"' {
				out = append(out, '"')
				i++
				continue
			}
			quoted, fieldStart = false, false
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t') {
				j++
			}
			if j == len(data) || data[j] == ',' || data[j] == '\n' || data[j] == '\r' {
				i = j - 1
			}
		case c == '"' && fieldStart:
			quoted = true
			out = append(out, c)
		case c == ',' || c == '\n':
			fieldStart = true
			out = append(out, c)
		case (c == ' ' || c == '\t') && fieldStart:
			out = append(out, c)
		default:
			fieldStart = false
			out = append(out, c)
		}
	}
	return out
}
