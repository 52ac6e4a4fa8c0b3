package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/auth"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the session API",
		Long: `Issue an HS256 token carrying the operator's email, signed with
LENSQUOTE_TOKEN_SECRET. The server also checks the email against the allow-list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := appConfig(cmd)
			if err != nil {
				return err
			}
			verifier, err := auth.NewTokenVerifier(cfg.TokenSecret)
			if err != nil {
				return fmt.Errorf("%w (set LENSQUOTE_TOKEN_SECRET)", err)
			}
			if ttl > 0 {
				verifier.TTL = ttl
			}

			if len(cfg.AllowedEmails) > 0 && !auth.NewAllowList(cfg.AllowedEmails...).Allowed(email) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not on the allow-list; the server will refuse it\n", email)
			}

			token, err := verifier.IssueToken(email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Operator email (required)")
	cmd.Flags().Duration("ttl", auth.DefaultTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

