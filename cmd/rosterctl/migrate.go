package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/roster/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|status|reset>",
	Short:     "Apply or inspect schema migrations",
	GroupID:   "system",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "reset"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *database.DB) error {
			if err := db.Migrate(ctx, args[0]); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", args[0])
			return nil
		})
	},
}
