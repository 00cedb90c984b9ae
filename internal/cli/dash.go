package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nstepanov/passvault/internal/dashboard"
	"github.com/nstepanov/passvault/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive vault dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash(cmd)
	},
}

func runDash(cmd *cobra.Command) error {
	client, log, err := newClient()
	if err != nil {
		return err
	}

	queue := tui.NewQueue()
	ctrl := dashboard.New(client, queue, log)

	p := tea.NewProgram(tui.New(ctrl, queue), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return err
	}

	if model, ok := final.(tui.Model); ok && model.AuthFailed() {
		return fmt.Errorf("not logged in, run 'passvault login' first")
	}

	if err := client.SaveSession(opts.SessionFile); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
