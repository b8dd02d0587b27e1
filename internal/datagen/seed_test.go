//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b", "c"}

	for i := 0; i < 20; i++ {
		got := Choose(f, items)
		if got != "a" && got != "b" && got != "c" {
			t.Errorf("Choose returned unexpected value: %q", got)
		}
	}

	var empty []string
	if got := Choose(f, empty); got != "" {
		t.Errorf("Choose on empty slice should return zero value, got %q", got)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"heavy", "light"}
	weights := []int{99, 1}

	heavy := 0
	for i := 0; i < 100; i++ {
		if ChooseWeighted(f, items, weights) == "heavy" {
			heavy++
		}
	}
	if heavy < 90 {
		t.Errorf("Expected heavy item to dominate, got %d/100", heavy)
	}
}

func TestSeederRows(t *testing.T) {
	s := NewSeeder(42)
	rows := s.Rows(1000)

	if len(rows) < 1000 {
		t.Fatalf("Expected at least 1000 rows, got %d", len(rows))
	}

	var anonymous, returns, zeroPrice int
	for _, r := range rows {
		if r.InvoiceNo == "" {
			t.Error("Row has empty InvoiceNo")
		}
		if r.StockCode == "" {
			t.Error("Row has empty StockCode")
		}
		if r.InvoiceDate.IsZero() {
			t.Error("Row has zero InvoiceDate")
		}
		if r.CustomerID == "" {
			anonymous++
		}
		if r.Quantity < 0 {
			returns++
		}
		if r.UnitPrice == 0 {
			zeroPrice++
		}
	}

	// The seeder must produce dirty data for the cleaning stage to filter.
	if anonymous == 0 {
		t.Error("Expected some anonymous rows, got none")
	}
	if returns == 0 {
		t.Error("Expected some return rows, got none")
	}
	if zeroPrice == 0 {
		t.Error("Expected some zero-price rows, got none")
	}
}

func TestSeederDeterministic(t *testing.T) {
	r1 := NewSeeder(7).Rows(200)
	r2 := NewSeeder(7).Rows(200)

	if len(r1) != len(r2) {
		t.Fatalf("Row counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Fatalf("Row %d differs between runs with the same seed", i)
		}
	}
}

func TestSeederBasketSizesSkewSmall(t *testing.T) {
	s := NewSeeder(42)
	rows := s.Rows(5000)

	lines := make(map[string]int)
	for _, r := range rows {
		lines[r.InvoiceNo]++
	}

	total := 0
	for _, n := range lines {
		total += n
	}
	mean := float64(total) / float64(len(lines))

	// The weighted basket distribution averages under three lines per
	// invoice; duplicates and invoice-number collisions only nudge it.
	if mean >= 4 {
		t.Errorf("Expected mean basket size under 4, got %.2f", mean)
	}
}

func TestSeederReturnInvoicesPrefixed(t *testing.T) {
	s := NewSeeder(42)
	rows := s.Rows(5000)

	for _, r := range rows {
		if r.Quantity < 0 && r.InvoiceNo[0] != 'C' {
			t.Errorf("Return line should have C-prefixed invoice, got %s", r.InvoiceNo)
		}
	}
}
