package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nconklindev/kouken/internal/config"
	"github.com/nconklindev/kouken/internal/csvexport"
	"github.com/nconklindev/kouken/internal/dataset"
	"github.com/nconklindev/kouken/internal/generator"
	"github.com/nconklindev/kouken/internal/types"
)

// Init-specific flag values.
var initForce bool

// initCmd writes a starter kouken.yaml.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a kouken.yaml with the default settings",
	Long: `Write the config file named by --config (kouken.yaml by default) with
every setting spelled out at its default value.

An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func defaultConfig() *config.Config {
	return &config.Config{
		Input:            generator.DefaultInputFile,
		Output:           generator.DefaultOutputFile,
		Variant:          string(types.VariantCheckbox),
		ExportFileName:   csvexport.DefaultFileName,
		PreferredColumns: dataset.DefaultPreferredColumns,
		DateColumn:       types.ColumnDate,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	dim := color.New(color.Faint)

	if _, err := os.Stat(configPath); err == nil && !initForce {
		_, _ = fmt.Fprintf(w, "%s%s %s\n", dim.Sprint("  - "), configPath, dim.Sprint("(exists, use --force to overwrite)"))
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitError(ExitWriteError, "kouken: %v", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return exitError(ExitWriteError, "kouken: %v", err)
	}
	if err := config.Write(f, defaultConfig()); err != nil {
		_ = f.Close()
		return exitError(ExitWriteError, "kouken: write %s: %v", configPath, err)
	}
	if err := f.Close(); err != nil {
		return exitError(ExitWriteError, "kouken: write %s: %v", configPath, err)
	}
	slog.Debug("wrote config", "path", configPath)

	_, _ = fmt.Fprintln(w, success("  + ")+configPath)
	return nil
}
