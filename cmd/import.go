package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"microgestion/internal/config"
	"microgestion/internal/dataset"
	"microgestion/internal/logger"
	"microgestion/internal/store"
	"microgestion/pkg/services"
)

var importCmd = &cobra.Command{
	Use:   "import [records.json]",
	Short: "Import invoices, expenses and parties from a JSON records file",
	Long: `Read a JSON records file (fiscal profile, clients, suppliers, invoices and
expenses) and upsert every record into the local SQLite database.

Records already stored with the same id are replaced; records absent from
the file are kept.

Environment variables:
  DATABASE_PATH - SQLite database file (default: ./data/microgestion.db)`,
	Example: `  # Import a records export
  microgestion import records.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("import")
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := dataset.File{Path: path}.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	details := fmt.Sprintf("%s (%d invoices, %d expenses)", path, len(records.Invoices), len(records.Expenses))
	if err := db.RecordAudit(ctx, services.AuditEntry{
		Action:  services.AuditActionRecordImport,
		Details: details,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to record audit entry")
	}

	log.Info().
		Str("file", path).
		Str("database", db.Path()).
		Msg("Records imported")

	fmt.Printf("Import terminé : %s\n", path)
	fmt.Printf("Clients : %d\n", len(records.Clients))
	fmt.Printf("Fournisseurs : %d\n", len(records.Suppliers))
	fmt.Printf("Factures et avoirs : %d\n", len(records.Invoices))
	fmt.Printf("Dépenses : %d\n", len(records.Expenses))
	fmt.Printf("Base : %s\n", db.Path())

	return nil
}
