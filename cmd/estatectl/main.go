// Command estatectl runs operator tasks against the luxestate database.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"luxestate/internal/config"
	"luxestate/internal/db"
	"luxestate/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg *config.Config
	db  *gorm.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "estatectl",
		Short:        "Operator tasks for the luxestate booking service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			logger.Setup(cmd.ErrOrStderr(), a.cfg.LogLevel, a.cfg.IsProduction())

			gormDB, err := db.Open(a.cfg.DBDriver, a.cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			a.db = gormDB
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.db == nil {
				return nil
			}
			return db.Close(a.db)
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newReconcileCmd(a),
	)
	return root
}
