package main

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/logging"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("migration complete", "driver", cfg.DBDriver)
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
