package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wellness2k25/wellness-go/internal/client"
)

var errNotLoggedIn = errors.New("not logged in - run 'wellctl login' first")

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.store().Load()
			if errors.Is(err, client.ErrNoSession) {
				return errNotLoggedIn
			}
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			u, err := opts.api().Me(ctx, sess.Token)
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\n", u.Name)
			fmt.Fprintf(out, "Email: %s\n", u.Email)
			fmt.Fprintf(out, "Role:  %s\n", u.Role)
			fmt.Fprintf(out, "Home:  %s\n", client.DestinationFor(u.Role))
			return nil
		},
	}
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.store()
			sess, err := store.Load()
			if errors.Is(err, client.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			// An expired or already revoked token still gets cleared locally.
			var apiErr *client.APIError
			if err := opts.api().Logout(ctx, sess.Token); err != nil && !errors.As(err, &apiErr) {
				return fmt.Errorf("logout: %w", err)
			}

			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
