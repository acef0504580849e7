package cmd

import (
	"marquee/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			return err
		}

		local, err := database.OpenLocal(cfg.LocalStorePath)
		if err != nil {
			return err
		}
		defer local.Close()

		return database.RunLocalMigrations(local)
	},
}
