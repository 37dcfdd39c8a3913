package main

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/seed"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		return database.Close(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default exercise catalog",
	Long: `Insert the default exercise catalog.

Exercises are matched by name, so running this more than once only adds
entries that are missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := seed.Exercises(cmd.Context(), db)
		if err != nil {
			return err
		}
		slog.Info("seed finished", "new", n)
		return nil
	},
}
