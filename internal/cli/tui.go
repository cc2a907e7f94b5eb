package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/tui"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit mandatory products interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := &notify.Recorder{}
		a, err := openTUISession(notes)
		if err != nil {
			return err
		}
		defer a.Close()

		p := tea.NewProgram(tui.New(cmd.Context(), a.session, notes), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	},
}
