//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/pkg/version"
)

const metadataTable = "retail_insights_meta"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS retail_insights_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveBuildMetadata records the parameters of a pipeline build so that
// later report runs can tell whether and how the star schema was built.
func SaveBuildMetadata(ctx context.Context, pool *pgxpool.Pool, asOf time.Time, stagingRows int64) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"version":      version.Short(),
		"built_at":     time.Now().UTC().Format(time.RFC3339),
		"as_of":        asOf.Format("2006-01-02"),
		"staging_rows": fmt.Sprintf("%d", stagingRows),
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO retail_insights_meta (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("as_of", metadata["as_of"]).
		Int64("staging_rows", stagingRows).
		Msg("Saved build metadata")

	return nil
}

// GetAllMetadata retrieves all metadata as a map. Querying a database
// that has never been built fails with an undefined-table error; callers
// treat that the same as an empty map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM retail_insights_meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
