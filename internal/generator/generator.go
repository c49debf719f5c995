package generator

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nconklindev/kouken/internal/dataset"
	"github.com/nconklindev/kouken/internal/extractor"
	"github.com/nconklindev/kouken/internal/render"
	"github.com/nconklindev/kouken/internal/types"
)

// Default paths used when nothing else is configured.
const (
	DefaultInputFile  = "地域貢献_統合.xlsx"
	DefaultOutputFile = "index.html"
)

// ErrReadInput wraps failures to open or parse the input file.
var ErrReadInput = errors.New("cannot read input")

// Options configures one generator run.
type Options struct {
	InputFile        string
	OutputFile       string
	Variant          types.Variant
	Title            string
	ExportFileName   string
	PreferredColumns []string
	DateColumn       string
}

// Stage fractions reported on the progress channel.
const (
	progressRead     = 0.25
	progressDataset  = 0.5
	progressRendered = 0.75
	progressWritten  = 1.0
)

// LoadDataset reads the input file and builds its dataset.
func LoadDataset(opts Options) (*types.Dataset, error) {
	table, err := extractor.ReadFile(opts.InputFile, dataset.RequiredColumns...)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadInput, opts.InputFile, err)
	}
	slog.Debug("read sheet", "sheet", table.Sheet, "header_row", table.HeaderRow, "rows", len(table.Rows))

	preferred := opts.PreferredColumns
	if preferred == nil {
		preferred = dataset.PreferredColumnsFor(opts.Variant)
	}
	return dataset.Build(table, dataset.Options{
		PreferredColumns: preferred,
		DateColumn:       opts.DateColumn,
	})
}

// Generate turns the input workbook into a search page. The output file is
// only written once the page has rendered completely. Progress in [0,1] is
// sent to progressChan without blocking when it is non-nil.
func Generate(opts Options, progressChan chan<- float64) (*types.GenerationResult, error) {
	opts = withDefaults(opts)
	if !opts.Variant.Valid() {
		return nil, fmt.Errorf("unknown variant %q", opts.Variant)
	}

	reportProgress := func(p float64) {
		if progressChan != nil {
			select {
			case progressChan <- p:
			default:
			}
		}
	}

	slog.Info("reading workbook", "path", opts.InputFile)
	reportProgress(progressRead)

	ds, err := LoadDataset(opts)
	if err != nil {
		return nil, err
	}
	reportProgress(progressDataset)
	slog.Debug("built dataset",
		"records", len(ds.Records),
		"columns", len(ds.Columns),
		"years", len(ds.Choices.Years),
		"departments", len(ds.Choices.Departments))

	var buf bytes.Buffer
	page := render.Page{
		Variant:        opts.Variant,
		Title:          opts.Title,
		SourceFile:     filepath.Base(opts.InputFile),
		ExportFileName: opts.ExportFileName,
	}
	if err := render.NewRenderer().Render(&buf, ds, page); err != nil {
		return nil, err
	}
	reportProgress(progressRendered)

	if err := os.WriteFile(opts.OutputFile, buf.Bytes(), 0o644); err != nil { //nolint:gosec // the page is meant to be shared
		return nil, fmt.Errorf("write %s: %w", opts.OutputFile, err)
	}
	reportProgress(progressWritten)
	slog.Info("wrote page", "path", opts.OutputFile, "records", len(ds.Records), "variant", opts.Variant)

	return &types.GenerationResult{
		InputFile:   opts.InputFile,
		OutputFile:  opts.OutputFile,
		Sheet:       ds.Sheet,
		Variant:     opts.Variant,
		Columns:     ds.Columns,
		RowsWritten: len(ds.Records),
		UndatedRows: ds.UndatedRows,
	}, nil
}

// OutputPathFor derives an output file next to the input, e.g.
// data.xlsx -> data_checkbox.html.
func OutputPathFor(inputFile string, v types.Variant) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]
	return base + "_" + string(v) + ".html"
}

func withDefaults(opts Options) Options {
	if opts.InputFile == "" {
		opts.InputFile = DefaultInputFile
	}
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultOutputFile
	}
	if opts.Variant == "" {
		opts.Variant = types.VariantCheckbox
	}
	return opts
}
