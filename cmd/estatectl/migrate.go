package main

import (
	"github.com/spf13/cobra"

	"luxestate/internal/db"
	"luxestate/internal/logger"
)

func newMigrateCmd(a *app) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := db.Migrate(a.db, reset || a.cfg.ResetDB); err != nil {
				return err
			}
			logger.Default().Info("database migrations completed", "driver", a.cfg.DBDriver, "reset", reset)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables before migrating")
	return cmd
}
