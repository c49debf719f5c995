package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	koukenlog "github.com/nconklindev/kouken/internal/log"
	"github.com/nconklindev/kouken/internal/ui"
)

// debugLogFile receives log output while a full-screen view owns the terminal.
const debugLogFile = "kouken-debug.log"

// wizardCmd picks a workbook and a variant interactively.
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Pick a workbook and page variant interactively",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

func runWizard(cmd *cobra.Command, _ []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupTUILogging()
	if err != nil {
		return err
	}
	defer closeLog()

	p := tea.NewProgram(ui.InitialModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return exitError(ExitWriteError, "kouken: %v", err)
	}
	return nil
}

// setupTUILogging keeps slog off the terminal: logs go to debugLogFile in
// verbose mode and are discarded otherwise.
func setupTUILogging() (func(), error) {
	if !verbose {
		koukenlog.SetupWriter(io.Discard, false, quiet)
		return func() {}, nil
	}
	f, err := os.Create(debugLogFile)
	if err != nil {
		return nil, exitError(ExitWriteError, "kouken: %v", err)
	}
	koukenlog.SetupWriter(f, true, false)
	return func() { f.Close() }, nil
}
