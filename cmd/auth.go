package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/docsmith/internal/config"
	"github.com/teemow/docsmith/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize docsmith to access a Google account",
		Long: `Authorize docsmith to access Google Docs, Slides and Drive.

Run 'docsmith auth url' and open the printed URL, then pass the authorization
code to 'docsmith auth save CODE'. Tokens are stored per account so that
several Google accounts can be used side by side.`,
	}
	cmd.PersistentFlags().StringVar(&account, "account", "", "Account name (default: the configured default account)")

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the Google authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, withAccount(account))
			if err != nil {
				return err
			}
			conf, err := google.LoadOAuthConfig(cfg.Google.CredentialsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open this URL to authorize account %q:\n\n%s\n\n", cfg.Google.DefaultAccount, google.GetAuthURL(conf, "state-token"))
			fmt.Fprintf(out, "Then run: docsmith auth save --account %s CODE\n", cfg.Google.DefaultAccount)
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save CODE",
		Short: "Exchange an authorization code and store the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, withAccount(account))
			if err != nil {
				return err
			}
			conf, err := google.LoadOAuthConfig(cfg.Google.CredentialsFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := google.SaveToken(ctx, conf, cfg.Google.TokenDir, cfg.Google.DefaultAccount, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved for account %q\n", cfg.Google.DefaultAccount)
			return nil
		},
	}

	cmd.AddCommand(urlCmd, saveCmd)
	return cmd
}

// withAccount makes account, when set, the account the command acts on.
func withAccount(account string) func(*cobra.Command, *config.Config) {
	return func(_ *cobra.Command, cfg *config.Config) {
		if account != "" {
			cfg.Google.DefaultAccount = account
		}
	}
}
