package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"microgestion/internal/config"
	"microgestion/internal/dataset"
	"microgestion/internal/store"
	"microgestion/pkg/services"
)

// recordSource resolves where a command reads records from: the JSON file
// given with --records, or the SQLite database. db is nil for a file source.
func recordSource(ctx context.Context, cfg *config.Config, recordsPath string) (provider services.RecordProvider, db *store.Store, err error) {
	if recordsPath != "" {
		return dataset.File{Path: recordsPath}, nil, nil
	}

	db, err = store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, db, nil
}

// dateFlag reads an optional YYYY-MM-DD flag.
func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	t, err := dataset.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}
