package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "workout-backend",
	Short: "Workout tracking API server",
	Long: `Workout tracking API server.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().Bool("seed", false, "seed the default exercise catalog before serving")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDatabase loads config, connects and migrates. Every subcommand starts
// this way.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()

	if cfg.DBPassword == "" {
		return nil, nil, errors.New("DB_PASSWORD environment variable is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("database migrated", "models", len(database.Models()))
	return cfg, db, nil
}
