// Package commands implements the recordsctl administration CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/utilities"
)

var (
	// Global flags
	dbURL   string
	verbose bool

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "recordsctl",
	Short: "Administration commands for the records service",
	Long: `recordsctl manages the records service database: table creation,
region reference data and administrator accounts.

The connection is read from DATABASE_URL (a .env file is honoured) unless
--db is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg := utilities.ConfigFromEnv()
		if verbose {
			cfg.Level = "debug"
		}
		lg, err := utilities.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = lg.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func connect() (*sqlx.DB, error) {
	cfg := database.ConfigFromEnv()
	if dbURL != "" {
		cfg.DSN = dbURL
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
