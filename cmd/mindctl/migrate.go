package main

import (
	"github.com/spf13/cobra"

	"mindfolk/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		defer logger.Sync()

		_, pool, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return db.Migrate(cmd.Context(), pool, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
