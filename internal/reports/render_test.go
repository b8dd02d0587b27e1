//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

import (
	"strings"
	"testing"
	"time"
)

func sampleTable() *Table {
	return &Table{
		Columns: []string{"country", "revenue"},
		Rows: [][]string{
			{"United Kingdom", "1234.50"},
			{"France", "98.00"},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf strings.Builder
	if err := WriteTable(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines (header, rule, 2 rows), got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "country") || !strings.Contains(lines[0], "revenue") {
		t.Errorf("Header missing column names: %q", lines[0])
	}
	if !strings.Contains(lines[2], "United Kingdom") {
		t.Errorf("First row missing: %q", lines[2])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "country,revenue\nUnited Kingdom,1234.50\nFrance,98.00\n"
	if buf.String() != want {
		t.Errorf("CSV mismatch:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf strings.Builder
	table := &Table{Columns: []string{"a", "b"}}
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != "a,b\n" {
		t.Errorf("Expected header only, got %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "hello", want: "hello"},
		{name: "int64", in: int64(42), want: "42"},
		{name: "int32", in: int32(7), want: "7"},
		{name: "float money", in: 1234.5, want: "1234.50"},
		{name: "float whole", in: 1.0, want: "1.00"},
		{name: "float sub-cent", in: 0.125, want: "0.1250"},
		{name: "float share", in: 0.8014, want: "0.8014"},
		{
			name: "date",
			in:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: "2024-06-15",
		},
		{
			name: "timestamp",
			in:   time.Date(2024, 6, 15, 8, 26, 0, 0, time.UTC),
			want: "2024-06-15 08:26:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
