//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline implements the retail analytics pipeline: staging
// ingestion, the cleaning/deduplication stage that produces the star
// schema, and the RFM segmentation tables derived from it.
package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/retailops/retail-insights/internal/logging"
)

// DB is the subset of pgxpool.Pool the pipeline needs. Using an interface
// keeps the stage functions testable against either a pool or a single
// connection.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// StagingRow is one raw invoice line as it arrives from upstream.
// CustomerID is empty for anonymous/guest transactions.
type StagingRow struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	UnitPrice   float64
	CustomerID  string
	Country     string
}

const createStagingSQL = `
CREATE TABLE IF NOT EXISTS staging_transactions (
    invoice_no   TEXT NOT NULL,
    stock_code   TEXT NOT NULL,
    description  TEXT,
    quantity     INTEGER NOT NULL,
    invoice_date TIMESTAMP NOT NULL,
    unit_price   NUMERIC(10,2) NOT NULL,
    customer_id  TEXT,
    country      TEXT
)`

var stagingColumns = []string{
	"invoice_no", "stock_code", "description", "quantity",
	"invoice_date", "unit_price", "customer_id", "country",
}

// CreateStaging creates the staging table if it doesn't exist.
func CreateStaging(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, createStagingSQL)
	return err
}

// TruncateStaging empties the staging table.
func TruncateStaging(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, "TRUNCATE staging_transactions")
	return err
}

// CountStaging returns the number of staging rows.
func CountStaging(ctx context.Context, db DB) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM staging_transactions").Scan(&n)
	return n, err
}

// LoadRows bulk-inserts staging rows via the COPY protocol.
func LoadRows(ctx context.Context, db DB, rows []StagingRow) (int64, error) {
	return db.CopyFrom(ctx,
		pgx.Identifier{"staging_transactions"},
		stagingColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			var customerID any
			if r.CustomerID != "" {
				customerID = r.CustomerID
			}
			return []any{
				r.InvoiceNo, r.StockCode, r.Description, r.Quantity,
				r.InvoiceDate, r.UnitPrice, customerID, r.Country,
			}, nil
		}),
	)
}

// Timestamp layouts accepted for the InvoiceDate column. The first is
// the export format of most warehouse dumps, the second the format used
// by the public online-retail dataset.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var errMissingHeader = errors.New("missing required column")

// ParseCSV reads raw transaction rows from a header-ful CSV stream.
// Columns are matched by name, case-insensitively, so both upstream
// export layouts are accepted. Rows with an unparseable quantity, price,
// or date are skipped and counted rather than failing the load.
func ParseCSV(r io.Reader) ([]StagingRow, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	col := func(name string) (int, error) {
		i, ok := idx[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", errMissingHeader, name)
		}
		return i, nil
	}

	var (
		invoiceCol, stockCol, descCol, qtyCol, dateCol, priceCol, custCol, countryCol int
	)
	required := []struct {
		name string
		dst  *int
	}{
		{"invoiceno", &invoiceCol},
		{"stockcode", &stockCol},
		{"description", &descCol},
		{"quantity", &qtyCol},
		{"invoicedate", &dateCol},
		{"unitprice", &priceCol},
		{"customerid", &custCol},
		{"country", &countryCol},
	}
	for _, rc := range required {
		if *rc.dst, err = col(rc.name); err != nil {
			return nil, 0, err
		}
	}

	var rows []StagingRow
	skipped := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		get := func(i int) string {
			if i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		quantity, err := strconv.Atoi(get(qtyCol))
		if err != nil {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(get(priceCol), 64)
		if err != nil {
			skipped++
			continue
		}
		date, err := parseDate(get(dateCol))
		if err != nil {
			skipped++
			continue
		}

		rows = append(rows, StagingRow{
			InvoiceNo:   get(invoiceCol),
			StockCode:   get(stockCol),
			Description: get(descCol),
			Quantity:    quantity,
			InvoiceDate: date,
			UnitPrice:   price,
			CustomerID:  get(custCol),
			Country:     get(countryCol),
		})
	}

	return rows, skipped, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// LoadCSV parses and loads a raw transactions stream into the staging
// table, creating it first if necessary.
func LoadCSV(ctx context.Context, db DB, r io.Reader, truncate bool) (int64, error) {
	rows, skipped, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}

	if err := CreateStaging(ctx, db); err != nil {
		return 0, fmt.Errorf("failed to create staging table: %w", err)
	}
	if truncate {
		if err := TruncateStaging(ctx, db); err != nil {
			return 0, fmt.Errorf("failed to truncate staging table: %w", err)
		}
	}

	loaded, err := LoadRows(ctx, db, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to copy staging rows: %w", err)
	}

	if skipped > 0 {
		logging.Warn().
			Int("skipped", skipped).
			Int64("loaded", loaded).
			Msg("Some rows could not be parsed and were dropped")
	}

	return loaded, nil
}
