//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports defines the analytical report queries and their
// registry. Reports come in two flavors: star-schema reports read the
// cleaned tables produced by the pipeline, staging reports read the raw
// transactions directly. The two can disagree on revenue totals because
// staging reports skip deduplication; that discrepancy is intentional
// and documented, not reconciled.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Source values for reports.
const (
	SourceStar    = "star"
	SourceStaging = "staging"
)

// DB is the query surface a report needs. *pgxpool.Pool satisfies it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Report is a named analytical query producing a tabular result.
type Report interface {
	// Name returns the report identifier.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Source returns which dataset the report reads: star or staging.
	Source() string

	// Run executes the report and collects its result set.
	Run(ctx context.Context, db DB) (*Table, error)
}

// Table is a materialized result set.
type Table struct {
	Columns []string
	Rows    [][]string
}

// queryReport is a Report backed by a single SQL statement.
type queryReport struct {
	name        string
	description string
	source      string
	sql         string
}

func (r *queryReport) Name() string        { return r.name }
func (r *queryReport) Description() string { return r.description }
func (r *queryReport) Source() string      { return r.source }

func (r *queryReport) Run(ctx context.Context, db DB) (*Table, error) {
	rows, err := db.Query(ctx, r.sql)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", r.name, err)
	}
	defer rows.Close()

	return Collect(rows)
}

// Collect drains a pgx result set into a Table, formatting every value
// as text.
func Collect(rows pgx.Rows) (*Table, error) {
	fields := rows.FieldDescriptions()
	t := &Table{Columns: make([]string, len(fields))}
	for i, f := range fields {
		t.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, rows.Err()
}

// FormatValue renders a single result value as text. Report SQL casts
// aggregates to double precision so only a small set of Go types
// arrives here. Floats render with two decimals for money, keeping up
// to four when the value carries sub-cent precision (revenue shares).
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strings.TrimSuffix(strconv.FormatFloat(x, 'f', 4, 64), "00")
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", x)
	}
}
