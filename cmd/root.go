package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"microgestion/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "microgestion",
	Short: "Microgestion - double-entry ledger and FEC export for micro-entrepreneurs",
	Long: `Microgestion turns invoices, credit notes and expenses into a double-entry
ledger following the French chart of accounts (PCG), and exports it as a
Fichier des Écritures Comptables (FEC) for the tax administration.

Records are kept in a local SQLite database (see "import") or read directly
from a JSON records file with --records.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Microgestion CLI executed")

		fmt.Println("Bienvenue dans Microgestion !")
		fmt.Println("Utilisez --help pour voir les commandes disponibles.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
