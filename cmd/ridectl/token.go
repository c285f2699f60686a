package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rideshare-functions/pkg/config"
	"rideshare-functions/pkg/identity"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage local identity tokens",
	}

	cmd.AddCommand(tokenIssueCmd())

	return cmd
}

func tokenIssueCmd() *cobra.Command {
	var (
		uid   string
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a session token accepted when IDENTITY_MODE=local",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.IdentityMode != config.IdentityModeLocal {
				return errors.New("tokens can only be issued when IDENTITY_MODE=local")
			}

			token, err := identity.NewLocalService(cfg.LocalIdentitySecret).IssueToken(uid, email, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "Subject uid")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("uid")

	return cmd
}
