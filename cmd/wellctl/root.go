package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wellness2k25/wellness-go/internal/client"
)

const defaultAPIBaseURL = "http://localhost:3001"

type options struct {
	apiBaseURL  string
	sessionFile string
	timeout     time.Duration
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "wellctl",
		Short:         "Sign in to the Wellness API from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelError
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			if opts.sessionFile == "" {
				path, err := client.DefaultSessionPath()
				if err != nil {
					return fmt.Errorf("locate session file: %w", err)
				}
				opts.sessionFile = path
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiBaseURL, "api", envOr("WELLNESS_API_BASE_URL", defaultAPIBaseURL), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.sessionFile, "session", os.Getenv("WELLNESS_SESSION_FILE"), "session file (default: user config dir)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(
		newLoginCmd(opts),
		newWhoamiCmd(opts),
		newLogoutCmd(opts),
	)
	return cmd
}

func (o *options) api() *client.API {
	return client.NewAPI(o.apiBaseURL, nil)
}

func (o *options) store() *client.FileStore {
	return client.NewFileStore(o.sessionFile)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
