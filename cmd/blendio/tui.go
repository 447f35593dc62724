package main

import (
	"fmt"

	"github.com/JJeris/blendio/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse builds, projects and settings interactively",
	Long: `Start the full-screen interface. Tabs: Builds, Projects, Arguments and
Locations. Press ? inside for the key bindings.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the screen belongs to the TUI
	logFileName = "blendio.log"
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() {
		_ = svc.Close()
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()

	return tui.Run(cmd.Context(), svc)
}
