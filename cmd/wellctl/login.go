package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/wellness2k25/wellness-go/internal/client"
)

func newLoginCmd(opts *options) *cobra.Command {
	var creds client.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Example: `  wellctl login
  wellctl login --email ana@example.com --password "$WELLNESS_PASSWORD"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" || creds.Password == "" {
				if !isInteractive() {
					return errors.New("--email and --password are required when stdin is not a terminal")
				}
				if err := promptCredentials(&creds); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			ui := newTerminalUI(out)
			h := client.NewHandshake(opts.api(), opts.store(), ui, ui, client.WithTimeout(opts.timeout))

			if _, err := h.Submit(cmd.Context(), creds); err != nil {
				// The notifier already showed the message.
				cmd.SilenceErrors = true
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

// promptCredentials asks for whichever field is missing. Email comes first
// so the form opens focused on it.
func promptCredentials(creds *client.Credentials) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&creds.Email).
			Validate(required("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password")),
	).Title("Log in to Well2K").Description("Enter your email to continue"))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	creds.Email = strings.TrimSpace(creds.Email)
	return nil
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
