package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nconklindev/kouken/internal/generator"
	"github.com/nconklindev/kouken/internal/ui"
)

// browseCmd filters the workbook in the terminal.
var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Filter the workbook by 年度 and 診療科 in the terminal",
	Long: `Open the workbook in an interactive terminal view. Toggle 年度 and 診療科
values to filter the rows; choosing years narrows the 診療科 list to the
departments seen in those years. Press e to export the current rows as CSV.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		opts.InputFile = args[0]
	}
	if opts.InputFile == "" {
		opts.InputFile = generator.DefaultInputFile
	}

	ds, err := generator.LoadDataset(opts)
	if err != nil {
		return classify(err)
	}

	closeLog, err := setupTUILogging()
	if err != nil {
		return err
	}
	defer closeLog()

	p := tea.NewProgram(ui.NewBrowser(ds, opts.InputFile), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return exitError(ExitWriteError, "kouken: %v", err)
	}
	return nil
}
