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
	"testing"
)

var knownReports = []string{
	"total_revenue",
	"revenue_by_country",
	"top_products",
	"top_customers",
	"segment_summary",
	"cumulative_revenue",
	"cohort_retention",
	"monthly_top_products",
	"pareto",
}

func TestGet(t *testing.T) {
	for _, name := range knownReports {
		t.Run(name, func(t *testing.T) {
			r, err := Get(name)
			if err != nil {
				t.Fatalf("Failed to get report '%s': %v", name, err)
			}
			if r == nil {
				t.Fatalf("Get('%s') returned nil", name)
			}

			if r.Name() != name {
				t.Errorf("Report name mismatch: expected '%s', got '%s'", name, r.Name())
			}
			if r.Description() == "" {
				t.Error("Report description should not be empty")
			}
			if r.Source() != SourceStar && r.Source() != SourceStaging {
				t.Errorf("Report source should be 'star' or 'staging', got '%s'", r.Source())
			}
		})
	}
}

func TestGetInvalidReport(t *testing.T) {
	_, err := Get("nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent report, got nil")
	}
}

func TestGetEmptyName(t *testing.T) {
	_, err := Get("")
	if err == nil {
		t.Error("Expected error for empty report name, got nil")
	}
}

func TestList(t *testing.T) {
	names := List()

	if len(names) == 0 {
		t.Fatal("List returned empty slice")
	}

	for _, expected := range knownReports {
		found := false
		for _, name := range names {
			if name == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected report '%s' not found in List()", expected)
		}
	}

	// List must be sorted for stable CLI output.
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List not sorted: %s > %s", names[i-1], names[i])
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != len(List()) {
		t.Errorf("All returned %d reports, List returned %d names", len(all), len(List()))
	}
}

func TestReportSources(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"total_revenue", SourceStar},
		{"revenue_by_country", SourceStar},
		{"top_products", SourceStar},
		{"top_customers", SourceStar},
		{"segment_summary", SourceStar},
		{"cumulative_revenue", SourceStaging},
		{"cohort_retention", SourceStaging},
		{"monthly_top_products", SourceStaging},
		{"pareto", SourceStaging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Get(tt.name)
			if err != nil {
				t.Fatalf("Failed to get report: %v", err)
			}
			if r.Source() != tt.source {
				t.Errorf("Source for %s: expected %s, got %s", tt.name, tt.source, r.Source())
			}
		})
	}
}
