package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nconklindev/kouken/internal/config"
	koukenlog "github.com/nconklindev/kouken/internal/log"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
)

// rootCmd generates the search page with the configured defaults when run
// without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "kouken",
	Short: "Generate the 地域貢献 年度×診療科 search page from a workbook",
	Long: `kouken reads the first sheet of the 地域貢献 workbook, orders the rows by
日付, and writes a self-contained HTML page that filters the rows by 年度 and
診療科 and exports the current selection as CSV.

Run without arguments it reads 地域貢献_統合.xlsx and writes index.html.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		koukenlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to the config file")

	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
