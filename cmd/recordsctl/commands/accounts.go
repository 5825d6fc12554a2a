package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	accountrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

var (
	adminEmail    string
	adminPassword string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage login accounts",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin USERNAME",
	Short: "Create an administrator account",
	Long: `Create an account with the admin flag set. Registration over HTTP only
creates regular accounts, so this is the way to bootstrap the first admin.

Without --password the password is read from the first line of stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := account.NewService(accountrepo.NewAccountRepo(db), nil, media.NewStorage(media.ConfigFromEnv()), logger)
		return createAdmin(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout(), args[0], adminEmail, adminPassword)
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (read from stdin when empty)")
}

func createAdmin(ctx context.Context, svc *account.Service, stdin io.Reader, out io.Writer, username, email, password string) error {
	if password == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	a, err := svc.CreateAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created admin %q (id %d)\n", a.Username, a.ID)
	return nil
}
