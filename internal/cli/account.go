package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCmd() *cobra.Command {
	var user, pass, confirm string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		Long: `Create a new account. Passwords not given as flags are prompted for.

Signing up does not log you in; run "clearview login" afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}

			p := newPrompter(cmd)
			var err error
			if pass == "" {
				if pass, err = p.password("Password"); err != nil {
					return err
				}
			}
			if confirm == "" {
				if confirm, err = p.password("Confirm password"); err != nil {
					return err
				}
			}

			req := map[string]string{
				"username":         user,
				"password":         pass,
				"password_confirm": confirm,
			}
			var result User

			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (prompted if omitted)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}

			if pass == "" {
				var err error
				if pass, err = newPrompter(cmd).password("Password"); err != nil {
					return err
				}
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}
			if result.SessionToken == "" {
				return errors.New("server did not return a session token")
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, cfg.Output)
			if cfg.Token == "" {
				out.PrintMessage("Not logged in")
				return nil
			}

			if err := client.Delete("/api/v1/sessions/current"); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get("/api/v1/sessions/current", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}
