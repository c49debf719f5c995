package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nconklindev/kouken/internal/generator"
)

// generateCmd writes the search page.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the search page for a workbook",
	Long: `Read the first sheet of the workbook, order rows by 日付 (unreadable dates
last), and write a self-contained HTML page with the rows and the 年度 /
診療科 choices embedded. Nothing is written when 年度 or 診療科 is missing.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	result, err := generator.Generate(opts, nil)
	if err != nil {
		return classify(err)
	}

	if quiet {
		return nil
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, success("✓ 生成完了:"), result.OutputFile)
	fmt.Fprintf(w, "  sheet: %s ／ variant: %s ／ %d 件\n", result.Sheet, result.Variant, result.RowsWritten)
	fmt.Fprintf(w, "  columns: %s\n", strings.Join(result.Columns, ", "))
	if result.UndatedRows > 0 {
		fmt.Fprintln(w, notice(fmt.Sprintf("  %d row(s) with unreadable 日付 were placed last", result.UndatedRows)))
	}
	return nil
}
