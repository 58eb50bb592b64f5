package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"microgestion/internal/config"
	"microgestion/internal/export"
	"microgestion/internal/logger"
	"microgestion/internal/sheets"
)

var fecCmd = &cobra.Command{
	Use:   "fec",
	Short: "Export the ledger as a Fichier des Écritures Comptables (FEC)",
	Long: `Compute the ledger and write it as a FEC file: tab-separated, CRLF line
endings, 18 statutory columns, amounts with a comma decimal separator.

The file is named {SIREN}FEC{YYYYMMDD}.txt, where the date is the closing
date of the exported period (or today for an export without end date).

Each export is recorded in the audit log. When a Google Sheet URL is set, the
exported entries are also appended to a sheet named after the file; a sheet
failure does not fail the export.

Environment variables:
  DATABASE_PATH    - SQLite database file (default: ./data/microgestion.db)
  EXPORT_DIR       - Output directory (default: ./exports)
  EXPORT_WORKERS   - Parallel workers for multi-year exports (default: 4)
  CHART_FILE       - Optional YAML chart of accounts override
  GOOGLE_SHEET_URL - Optional Google Sheet receiving a copy of each export
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - Service account for the sheet`,
	Example: `  # Export fiscal year 2025
  microgestion fec --year 2025

  # Export several years in parallel into a given directory
  microgestion fec --year 2023 --year 2024 --year 2025 --output ./fec

  # Export everything up to today from a records file
  microgestion fec --records records.json`,
	Args: cobra.NoArgs,
	RunE: runFEC,
}

func init() {
	rootCmd.AddCommand(fecCmd)

	fecCmd.Flags().IntSlice("year", nil, "Fiscal year to export (repeatable)")
	fecCmd.Flags().String("from", "", "First date of the period (YYYY-MM-DD)")
	fecCmd.Flags().String("to", "", "Last date of the period (YYYY-MM-DD)")
	fecCmd.Flags().String("output", "", "Output directory (overrides EXPORT_DIR)")
	fecCmd.Flags().String("records", "", "Read records from a JSON file instead of the database")
	fecCmd.Flags().String("sheet-url", "", "Google Sheet receiving a copy (overrides GOOGLE_SHEET_URL)")
	fecCmd.Flags().Int("workers", 0, "Parallel workers for multi-year exports (overrides EXPORT_WORKERS)")

	fecCmd.MarkFlagsMutuallyExclusive("year", "from")
	fecCmd.MarkFlagsMutuallyExclusive("year", "to")
}

func runFEC(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("fec")

	years, _ := cmd.Flags().GetIntSlice("year")
	outputDir, _ := cmd.Flags().GetString("output")
	recordsPath, _ := cmd.Flags().GetString("records")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	workers, _ := cmd.Flags().GetInt("workers")

	from, err := dateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, "to")
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.ExportDir
	}
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if workers <= 0 {
		workers = cfg.ExportWorkers
	}

	accounts, err := cfg.Chart()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	provider, db, err := recordSource(ctx, cfg, recordsPath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	opts := []export.Option{export.WithChart(accounts)}
	if db != nil {
		opts = append(opts, export.WithAudit(db))
	}
	if sheetURL != "" {
		sheetsService, err := sheets.NewSheetsService(ctx, sheetURL)
		if err != nil {
			log.Warn().Err(err).Msg("Google Sheet unavailable, exporting without sheet copy")
		} else {
			opts = append(opts, export.WithSink(sheetsService))
		}
	}

	exporter := export.NewExporter(provider, outputDir, opts...)

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("                              EXPORT FEC")
	fmt.Println(strings.Repeat("=", 80))

	if len(years) == 0 {
		result, err := exporter.Export(ctx, export.Period{From: from, To: to})
		if err != nil {
			return err
		}
		printExportResult(result)
		fmt.Println(strings.Repeat("=", 80))
		return nil
	}

	fmt.Printf("Exercices : %d avec %d workers\n", len(years), workers)
	fmt.Println()

	results, err := exporter.ExportYears(ctx, years, workers)
	if err != nil {
		return err
	}
	return summarizeYears(results, log)
}

func printExportResult(r *export.Result) {
	fmt.Printf("Période : %s\n", r.Period)
	fmt.Printf("Fichier : %s\n", r.Path)
	fmt.Printf("Écritures : %d\n", r.Entries)
	fmt.Printf("Total débit : %s EUR\n", r.Debit.Fixed(2, ","))
	fmt.Printf("Total crédit : %s EUR\n", r.Credit.Fixed(2, ","))
}

func summarizeYears(results []export.YearResult, log zerolog.Logger) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("❌ %d : %v\n", r.Year, r.Err)
			continue
		}
		fmt.Printf("✅ %d : %s (%d écritures)\n", r.Year, r.Result.Filename, r.Result.Entries)
	}

	fmt.Println(strings.Repeat("=", 80))

	log.Info().
		Int("total", len(results)).
		Int("errors", failed).
		Msg("FEC export completed")

	if failed > 0 {
		return fmt.Errorf("%d of %d export(s) failed", failed, len(results))
	}
	return nil
}
