package main

import (
	"github.com/spf13/cobra"

	"github.com/nconklindev/kouken/internal/config"
	"github.com/nconklindev/kouken/internal/generator"
	"github.com/nconklindev/kouken/internal/types"
)

// Generate flag values, shared by the root command and generate.
var (
	genInput   string
	genOutput  string
	genVariant string
	genTitle   string
)

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&genInput, "input", "i", "", "input workbook (.xlsx) or .csv (default: "+generator.DefaultInputFile+")")
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "output HTML file (default: "+generator.DefaultOutputFile+")")
	cmd.Flags().StringVar(&genVariant, "variant", "", "page variant: checkbox, cascade or grouped (default: checkbox)")
	cmd.Flags().StringVar(&genTitle, "title", "", "page heading (default depends on variant)")
}

// resolveOptions merges built-in defaults, the config file and flags, in
// increasing order of precedence.
func resolveOptions(cmd *cobra.Command) (generator.Options, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return generator.Options{}, exitError(ExitInvalidArgs, "kouken: %v", err)
	}

	opts := generator.Options{
		InputFile:        cfg.Input,
		OutputFile:       cfg.Output,
		Variant:          types.Variant(cfg.Variant),
		Title:            cfg.Title,
		ExportFileName:   cfg.ExportFileName,
		PreferredColumns: cfg.PreferredColumns,
		DateColumn:       cfg.DateColumn,
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		opts.InputFile = genInput
	}
	if flags.Changed("output") {
		opts.OutputFile = genOutput
	}
	if flags.Changed("variant") {
		opts.Variant = types.Variant(genVariant)
	}
	if flags.Changed("title") {
		opts.Title = genTitle
	}

	if opts.Variant != "" && !opts.Variant.Valid() {
		return generator.Options{}, exitError(ExitInvalidArgs, "kouken: unknown variant %q (want one of %v)", opts.Variant, types.Variants)
	}
	return opts, nil
}
