package ingest

import (
	"strings"

	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
)

// Field is the canonical lead attribute a column header maps to.
type Field int

const (
	FieldIgnored Field = iota
	FieldFirstName
	FieldPhone
	FieldNotes
)

func (f Field) String() string {
	switch f {
	case FieldFirstName:
		return "firstName"
	case FieldPhone:
		return "phone"
	case FieldNotes:
		return "notes"
	default:
		return "ignored"
	}
}

var headerFields = map[string]Field{
	"firstname": FieldFirstName,
	"phone":     FieldPhone,
	"notes":     FieldNotes,
}

// ClassifyHeader maps a header to its field, ignoring case and surrounding space.
func ClassifyHeader(header string) Field {
	return headerFields[strings.ToLower(strings.TrimSpace(header))]
}

// Lead is one usable row. FirstName and Phone are never empty.
type Lead struct {
	FirstName string
	Phone     string
	Notes     string
}

// NormalizeResult holds the kept leads in file order and how many rows were dropped.
type NormalizeResult struct {
	Leads   []Lead
	Dropped int
}

// Normalize maps every row of t onto a Lead. When several columns map to the
// same field the first non-empty value, in column order, wins. Rows missing a
// first name or phone are dropped; if none survive the result is an error.
func Normalize(t *Table) (NormalizeResult, error) {
	var result NormalizeResult
	if t == nil {
		return result, noValidRows(0)
	}

	fields := make([]Field, len(t.Headers))
	for i, header := range t.Headers {
		fields[i] = ClassifyHeader(header)
	}

	for _, row := range t.Rows {
		var lead Lead
		for col, field := range fields {
			value := strings.TrimSpace(cell(row, col))
			if value == "" {
				continue
			}
			switch field {
			case FieldFirstName:
				if lead.FirstName == "" {
					lead.FirstName = value
				}
			case FieldPhone:
				if lead.Phone == "" {
					lead.Phone = value
				}
			case FieldNotes:
				if lead.Notes == "" {
					lead.Notes = value
				}
			}
		}
		if lead.FirstName == "" || lead.Phone == "" {
			result.Dropped++
			continue
		}
		result.Leads = append(result.Leads, lead)
	}

	if len(result.Leads) == 0 {
		return result, noValidRows(result.Dropped)
	}
	return result, nil
}

func noValidRows(dropped int) error {
	return pkgerrors.New(pkgerrors.CodeNoValidRows, "no valid rows found").
		WithDetails(map[string]any{"droppedRows": dropped})
}
