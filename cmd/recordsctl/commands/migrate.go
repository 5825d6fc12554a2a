package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables",
	Long: `Create every table, constraint and index the service uses. Existing
tables are left untouched, so the command is safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := schema.EnsureTables(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "tables are up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
