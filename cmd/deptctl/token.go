package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/department-app/internal/auth"
)

func newTokenCommand() *cobra.Command {
	var (
		username string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an admin token with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			if username == "" {
				username = rt.cfg.Auth.AdminUsername
			}
			if ttl <= 0 {
				ttl = rt.cfg.Auth.TokenTTL()
			}

			token, exp, err := auth.NewTokenManager(rt.cfg.Auth.JWTSecret, ttl).GenerateToken(username, auth.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "token subject (defaults to AUTH_ADMIN_USERNAME)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL_MINUTES)")
	return cmd
}
