package ingest

import (
	"testing"

	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
)

func TestClassifyHeader(t *testing.T) {
	cases := map[string]Field{
		"FirstName":  FieldFirstName,
		"firstname":  FieldFirstName,
		" Phone ":    FieldPhone,
		"NOTES":      FieldNotes,
		"First Name": FieldIgnored,
		"email":      FieldIgnored,
		"":           FieldIgnored,
	}
	for header, want := range cases {
		if got := ClassifyHeader(header); got != want {
			t.Fatalf("ClassifyHeader(%q) = %s, want %s", header, got, want)
		}
	}
}

func TestNormalizeDropsIncompleteRows(t *testing.T) {
	table := &Table{
		Headers: []string{"FirstName", "Phone", "Notes", "Company"},
		Rows: [][]string{
			{"Alice", "555-1", "call back", "Acme"},
			{"", "555-2", "no name", ""},
			{"Carol", "", "no phone", ""},
			{"Dave", "555-4", "", ""},
		},
	}

	result, err := Normalize(table)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", result.Dropped)
	}
	want := []Lead{
		{FirstName: "Alice", Phone: "555-1", Notes: "call back"},
		{FirstName: "Dave", Phone: "555-4"},
	}
	if len(result.Leads) != len(want) {
		t.Fatalf("expected %d leads, got %d", len(want), len(result.Leads))
	}
	for i := range want {
		if result.Leads[i] != want[i] {
			t.Fatalf("lead %d = %+v, want %+v", i, result.Leads[i], want[i])
		}
	}
}

func TestNormalizeFirstNonEmptyColumnWins(t *testing.T) {
	table := &Table{
		Headers: []string{"firstname", "FirstName", "phone", "Phone"},
		Rows: [][]string{
			{"", "Alice", "555-1", "555-9"},
			{"Bob", "Robert", "", "555-2"},
		},
	}

	result, err := Normalize(table)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if result.Leads[0].FirstName != "Alice" || result.Leads[0].Phone != "555-1" {
		t.Fatalf("unexpected first lead %+v", result.Leads[0])
	}
	if result.Leads[1].FirstName != "Bob" || result.Leads[1].Phone != "555-2" {
		t.Fatalf("unexpected second lead %+v", result.Leads[1])
	}
}

func TestNormalizeTreatsWhitespaceAsEmpty(t *testing.T) {
	table := &Table{
		Headers: []string{"firstName", "phone"},
		Rows:    [][]string{{"   ", "555-1"}},
	}

	_, err := Normalize(table)
	assertCode(t, err, pkgerrors.CodeNoValidRows)
}

func TestNormalizeNoValidRows(t *testing.T) {
	cases := map[string]*Table{
		"nil table":      nil,
		"header only":    {Headers: []string{"firstName", "phone"}},
		"no known field": {Headers: []string{"name", "mobile"}, Rows: [][]string{{"Alice", "555"}}},
	}
	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := Normalize(table)
			assertCode(t, err, pkgerrors.CodeNoValidRows)
			if len(result.Leads) != 0 {
				t.Fatalf("expected no leads, got %d", len(result.Leads))
			}
		})
	}
}
