package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"microgestion/internal/config"
	"microgestion/internal/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent imports and exports",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().Int("limit", 20, "Number of entries to show")
	auditCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runAudit(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := db.ListAudit(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		jsonData, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonData))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("Journal d'audit vide.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-14s %s\n", e.CreatedAt.Local().Format("02/01/2006 15:04:05"), e.Action, e.Details)
	}
	return nil
}
