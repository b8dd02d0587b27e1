//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"strings"
	"testing"
	"time"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country",
		"536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2010-12-01 08:26:00,2.55,17850,United Kingdom",
		"536365,71053,WHITE METAL LANTERN,6,2010-12-01 08:26:00,3.39,17850,United Kingdom",
		"536366,22633,HAND WARMER UNION JACK,6,2010-12-01 08:28:00,1.85,,United Kingdom",
		"C536379,21533,RETROSPOT GIANT BAG,-4,2010-12-01 09:41:00,4.65,14527,United Kingdom",
	}, "\n")

	rows, skipped, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", skipped)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.InvoiceNo != "536365" {
		t.Errorf("InvoiceNo mismatch: %s", first.InvoiceNo)
	}
	if first.StockCode != "85123A" {
		t.Errorf("StockCode mismatch: %s", first.StockCode)
	}
	if first.Quantity != 6 {
		t.Errorf("Quantity mismatch: %d", first.Quantity)
	}
	if first.UnitPrice != 2.55 {
		t.Errorf("UnitPrice mismatch: %f", first.UnitPrice)
	}
	wantDate := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	if !first.InvoiceDate.Equal(wantDate) {
		t.Errorf("InvoiceDate mismatch: %v", first.InvoiceDate)
	}

	// Anonymous transaction keeps an empty customer id.
	if rows[2].CustomerID != "" {
		t.Errorf("Expected empty CustomerID, got %q", rows[2].CustomerID)
	}

	// Returns pass through staging untouched; the cleaning stage filters them.
	if rows[3].Quantity != -4 {
		t.Errorf("Expected negative quantity to survive parsing, got %d", rows[3].Quantity)
	}
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	input := strings.Join([]string{
		"invoiceno,stockcode,description,quantity,invoicedate,unitprice,customerid,country",
		"A1,P1,WIDGET,2,2024-01-15 10:00:00,5.00,C9,France",
	}, "\n")

	rows, _, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Country != "France" {
		t.Errorf("Country mismatch: %s", rows[0].Country)
	}
}

func TestParseCSVReorderedColumns(t *testing.T) {
	// Upstream exports vary in column order; matching is by header name.
	input := strings.Join([]string{
		"CustomerID,Country,InvoiceNo,InvoiceDate,StockCode,Description,Quantity,UnitPrice",
		"17850,United Kingdom,536365,2010-12-01 08:26:00,85123A,HEART HOLDER,6,2.55",
	}, "\n")

	rows, _, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if rows[0].CustomerID != "17850" {
		t.Errorf("CustomerID mismatch: %s", rows[0].CustomerID)
	}
	if rows[0].StockCode != "85123A" {
		t.Errorf("StockCode mismatch: %s", rows[0].StockCode)
	}
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country",
		"A1,P1,OK,2,2024-01-15 10:00:00,5.00,C9,France",
		"A2,P2,BAD QTY,lots,2024-01-15 10:00:00,5.00,C9,France",
		"A3,P3,BAD PRICE,2,2024-01-15 10:00:00,free,C9,France",
		"A4,P4,BAD DATE,2,someday,5.00,C9,France",
		"A5,P5,OK TOO,1,2024-01-16 11:00:00,7.50,C8,Spain",
	}, "\n")

	rows, skipped, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 good rows, got %d", len(rows))
	}
	if skipped != 3 {
		t.Errorf("Expected 3 skipped rows, got %d", skipped)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	input := strings.Join([]string{
		"InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice",
		"A1,P1,X,2,2024-01-15 10:00:00,5.00",
	}, "\n")

	_, _, err := ParseCSV(strings.NewReader(input))
	if err == nil {
		t.Error("Expected error for missing columns, got nil")
	}
}

func TestParseCSVDateLayouts(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{
			name: "timestamp with seconds",
			date: "2010-12-01 08:26:00",
			want: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		},
		{
			name: "us slash layout",
			date: "12/1/2010 8:26",
			want: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		},
		{
			name: "date only",
			date: "2010-12-01",
			want: time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.date)
			if err != nil {
				t.Fatalf("parseDate(%q) failed: %v", tt.date, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}

	if _, err := parseDate("tomorrow"); err == nil {
		t.Error("Expected error for unparseable date, got nil")
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	if err == nil {
		t.Error("Expected error for empty input, got nil")
	}
}
