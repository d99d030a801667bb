package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wellness2k25/wellness-go/internal/client"
)

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
	navStyle = lipgloss.NewStyle().Faint(true)
)

// terminalUI renders handshake notifications and navigation. A terminal
// has no toast to dismiss, so ttl is not used.
type terminalUI struct {
	out io.Writer
}

func newTerminalUI(out io.Writer) *terminalUI {
	return &terminalUI{out: out}
}

func (u *terminalUI) Success(msg string, ttl time.Duration) {
	fmt.Fprintln(u.out, successStyle.Render(msg))
}

func (u *terminalUI) Error(msg string, ttl time.Duration) {
	fmt.Fprintln(u.out, errorStyle.Render("Error: "+msg))
}

func (u *terminalUI) Navigate(dest client.Destination) {
	fmt.Fprintln(u.out, navStyle.Render("→ "+string(dest)))
}

func withTimeout(cmd *cobra.Command, opts *options) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, opts.timeout)
}
