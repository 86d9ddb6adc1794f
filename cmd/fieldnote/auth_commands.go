package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fieldnote/internal/services/backend"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend session",
	}

	authCmd.AddCommand(newLoginCommand(ctx))
	authCmd.AddCommand(newLogoutCommand(ctx))
	authCmd.AddCommand(newWhoamiCommand(ctx))
	authCmd.AddCommand(newRegisterCommand(ctx))
	authCmd.AddCommand(newVerifyCommand(ctx))

	return authCmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("both --email and --password are required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			session, err := client.CreateSession(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := backend.SaveSession(cfg.SessionPath(), session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			// Revoke the server-side session first; clearing the local file
			// still happens if revocation fails against a dead session.
			if err := client.DeleteSession(cmd.Context()); err != nil && !errors.Is(err, backend.ErrNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: revoke session: %v\n", err)
			}
			if err := backend.ClearSession(cfg.SessionPath()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:     %s\n", user.Name)
			fmt.Fprintf(out, "Email:    %s\n", user.Email)
			fmt.Fprintf(out, "Verified: %s\n", yesNo(user.EmailVerified))
			return nil
		},
	}
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
				return errors.New("--email, --password, and --name are required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			user, err := client.CreateAccount(cmd.Context(), uuid.NewString(), email, password, name)
			if err != nil {
				return err
			}
			session, err := client.CreateSession(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := backend.SaveSession(cfg.SessionPath(), session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s and signed in\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <user-id> <secret>",
		Short: "Confirm an email verification token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			if err := client.ConfirmVerification(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email verified")
			return nil
		},
	}
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
