package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	authrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/auth/repo"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Maintain the refresh token blacklist",
}

var flushExpiredCmd = &cobra.Command{
	Use:   "flush-expired",
	Short: "Delete blacklist entries whose tokens have expired",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := authrepo.NewBlacklistRepo(db).PurgeExpired(cmd.Context(), time.Now())
		if err != nil {
			return fmt.Errorf("purge blacklist: %w", err)
		}
		logger.Debugw("blacklist purged", "rows", n)
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(flushExpiredCmd)
}
