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
	"context"
	"fmt"
	"time"

	"github.com/retailops/retail-insights/internal/logging"
)

// Result summarizes a pipeline build.
type Result struct {
	StagingRows int64
	Customers   int64
	Products    int64
	Orders      int64
	OrderItems  int64
	Segments    int64
}

// Run executes the full pipeline against the staging table: the cleaning
// stage rebuilds the star schema, then the RFM stage derives the three
// segmentation tables. Statements run sequentially; there is no
// incremental path, every derived table is recomputed in full.
func Run(ctx context.Context, db DB, asOf time.Time) (*Result, error) {
	stagingRows, err := CountStaging(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("staging table not found; run 'seed' or 'load' first: %w", err)
	}
	if stagingRows == 0 {
		return nil, fmt.Errorf("staging table is empty; run 'seed' or 'load' first")
	}

	logging.Info().
		Int64("staging_rows", stagingRows).
		Str("as_of", asOf.Format("2006-01-02")).
		Msg("Building star schema")

	if err := BuildStarSchema(ctx, db); err != nil {
		return nil, err
	}

	segments, err := BuildRFM(ctx, db, asOf)
	if err != nil {
		return nil, err
	}

	res := &Result{StagingRows: stagingRows, Segments: segments}
	counts := []struct {
		table string
		dst   *int64
	}{
		{"customers", &res.Customers},
		{"products", &res.Products},
		{"orders", &res.Orders},
		{"order_items", &res.OrderItems},
	}
	for _, c := range counts {
		if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	return res, nil
}
