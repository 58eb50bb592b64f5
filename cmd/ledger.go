package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"microgestion/internal/config"
	"microgestion/internal/ledger"
	"microgestion/internal/logger"
	"microgestion/pkg/models"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the double-entry ledger computed from the records",
	Long: `Compute the accounting entries from the stored invoices, credit notes and
expenses, and print them.

Entries are never stored: the ledger is recomputed from the records on every
run, so it always reflects the current state of the books.

With --check, every source document is verified to balance (total debit
equals total credit). With --balances, per-account totals are printed.

Environment variables:
  DATABASE_PATH - SQLite database file (default: ./data/microgestion.db)
  CHART_FILE    - Optional YAML chart of accounts override`,
	Example: `  # Print the whole ledger
  microgestion ledger

  # Entries of the first quarter as JSON
  microgestion ledger --from 2025-01-01 --to 2025-03-31 --json

  # Verify balance and show account totals from a records file
  microgestion ledger --records records.json --check --balances`,
	Args: cobra.NoArgs,
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().String("records", "", "Read records from a JSON file instead of the database")
	ledgerCmd.Flags().String("from", "", "First date of the period (YYYY-MM-DD)")
	ledgerCmd.Flags().String("to", "", "Last date of the period (YYYY-MM-DD)")
	ledgerCmd.Flags().Bool("json", false, "Output as JSON format")
	ledgerCmd.Flags().Bool("check", false, "Verify that every document balances")
	ledgerCmd.Flags().Bool("balances", false, "Show per-account totals")
}

func runLedger(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ledger")

	recordsPath, _ := cmd.Flags().GetString("records")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	check, _ := cmd.Flags().GetBool("check")
	balances, _ := cmd.Flags().GetBool("balances")

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
	accounts, err := cfg.Chart()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider, db, err := recordSource(ctx, cfg, recordsPath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	records, err := provider.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	entries := ledger.NewGenerator(accounts).Generate(records)
	entries = ledger.FilterPeriod(entries, from, to)

	log.Info().
		Int("entries", len(entries)).
		Str("from", formatFlagDate(from)).
		Str("to", formatFlagDate(to)).
		Msg("Ledger computed")

	if jsonOutput {
		return outputLedgerJSON(entries)
	}

	printLedger(entries)

	if balances {
		printBalances(entries)
	}

	if check {
		return checkLedger(entries, log)
	}
	return nil
}

func formatFlagDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func outputLedgerJSON(entries []models.AccountingEntry) error {
	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func printLedger(entries []models.AccountingEntry) {
	fmt.Println(strings.Repeat("=", 100))
	fmt.Println("                                      GRAND LIVRE")
	fmt.Println(strings.Repeat("=", 100))

	if len(entries) == 0 {
		fmt.Println("Aucune écriture sur la période.")
		return
	}

	fmt.Printf("%-10s %-2s %-8s %-14s %-40s %12s %12s %s\n",
		"Date", "Jl", "Compte", "Pièce", "Libellé", "Débit", "Crédit", "Let.")
	fmt.Println(strings.Repeat("-", 100))

	for _, e := range entries {
		fmt.Printf("%-10s %-2s %-8s %-14s %-40s %12s %12s %s\n",
			e.Date.Format("02/01/2006"),
			e.Journal,
			e.Account,
			truncate(e.Reference, 14),
			truncate(e.Label, 40),
			blankZero(e.Debit.Fixed(2, ",")),
			blankZero(e.Credit.Fixed(2, ",")),
			e.Lettering,
		)
	}

	debit, credit := ledger.Totals(entries)
	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("%-78s %12s %12s\n", fmt.Sprintf("Total (%d écritures)", len(entries)),
		debit.Fixed(2, ","), credit.Fixed(2, ","))
}

func printBalances(entries []models.AccountingEntry) {
	fmt.Println()
	fmt.Println("=== SOLDES PAR COMPTE ===")
	for _, b := range ledger.AccountBalances(entries) {
		fmt.Printf("%-8s %-40s %12s %12s %12s\n",
			b.Account,
			truncate(b.Label, 40),
			b.Debit.Fixed(2, ","),
			b.Credit.Fixed(2, ","),
			b.Balance().Fixed(2, ","),
		)
	}
}

func checkLedger(entries []models.AccountingEntry, log zerolog.Logger) error {
	fmt.Println()
	imbalances := ledger.CheckBalance(entries)
	if len(imbalances) == 0 {
		fmt.Println("✅ Toutes les pièces sont équilibrées.")
		return nil
	}

	for _, im := range imbalances {
		log.Warn().
			Str("document", im.SourceDocumentID).
			Str("debit", im.Debit.String()).
			Str("credit", im.Credit.String()).
			Msg("Unbalanced document")
		fmt.Printf("❌ %s : débit %s, crédit %s (écart %s)\n",
			im.SourceDocumentID, im.Debit.Fixed(2, ","), im.Credit.Fixed(2, ","), im.Difference().Fixed(2, ","))
	}
	return fmt.Errorf("%d unbalanced document(s)", len(imbalances))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func blankZero(s string) string {
	if s == "0,00" {
		return ""
	}
	return s
}
