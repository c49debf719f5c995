package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nconklindev/kouken/internal/dataset"
	"github.com/nconklindev/kouken/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir string, rows [][]any) string {
	t.Helper()
	path := filepath.Join(dir, "地域貢献_統合.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func outreachRows() [][]any {
	return [][]any{
		{"タイトル", "年度", "診療科", "日付", "事業所"},
		{"講座B", "2023", "外科", "2023年6月1日", "本院"},
		{"講座A", "2023", "内科", "2023/4/1", "分院"},
		{"講座C", "2024", "外科", "未定", "本院"},
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := writeWorkbook(t, dir, outreachRows())
	output := filepath.Join(dir, "index.html")

	result, err := Generate(Options{InputFile: input, OutputFile: output, Variant: types.VariantCascade}, nil)
	require.NoError(t, err)

	assert.Equal(t, input, result.InputFile)
	assert.Equal(t, output, result.OutputFile)
	assert.Equal(t, "Sheet1", result.Sheet)
	assert.Equal(t, types.VariantCascade, result.Variant)
	assert.Equal(t, 3, result.RowsWritten)
	assert.Equal(t, 1, result.UndatedRows)
	assert.Equal(t, []string{"年度", "診療科", "日付", "事業所", "タイトル"}, result.Columns)

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(page), "ソース: 地域貢献_統合.xlsx")
	assert.Contains(t, string(page), `"診療科By年度":{"2023":["内科","外科"],"2024":["外科"]}`)
}

func TestGenerate_Progress(t *testing.T) {
	dir := t.TempDir()
	input := writeWorkbook(t, dir, outreachRows())

	progressChan := make(chan float64, 10)
	_, err := Generate(Options{InputFile: input, OutputFile: filepath.Join(dir, "out.html")}, progressChan)
	require.NoError(t, err)
	close(progressChan)

	var got []float64
	for p := range progressChan {
		got = append(got, p)
	}
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1.0}, got)
}

func TestGenerate_MissingColumnsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeWorkbook(t, dir, [][]any{
		{"年度", "タイトル"},
		{"2023", "講座"},
	})
	output := filepath.Join(dir, "index.html")

	_, err := Generate(Options{InputFile: input, OutputFile: output}, nil)
	require.Error(t, err)

	var mce *dataset.MissingColumnsError
	assert.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"診療科"}, mce.Columns)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output may be written when required columns are missing")
}

func TestGenerate_UnreadableInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(Options{InputFile: filepath.Join(dir, "missing.xlsx"), OutputFile: filepath.Join(dir, "index.html")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadInput)
}

func TestGenerate_UnknownVariant(t *testing.T) {
	_, err := Generate(Options{Variant: "table"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")
}

func TestGenerate_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, outreachRows())
	t.Chdir(dir)

	result, err := Generate(Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultInputFile, result.InputFile)
	assert.Equal(t, DefaultOutputFile, result.OutputFile)
	assert.Equal(t, types.VariantCheckbox, result.Variant)
	assert.Equal(t, []string{"年度", "事業所", "診療科", "日付", "タイトル"}, result.Columns)

	_, err = os.Stat(filepath.Join(dir, DefaultOutputFile))
	assert.NoError(t, err)
}

func TestLoadDataset_OrdersDateCells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dates.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"年度", "診療科", "日付", "タイトル"}))

	ymd := "yyyy/m/d"
	rows := []struct {
		date  any
		style *excelize.Style
		title string
	}{
		{time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), &excelize.Style{NumFmt: 14}, "dec"},
		{time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), &excelize.Style{NumFmt: 22}, "nov"},
		{time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), &excelize.Style{NumFmt: 31}, "jul"},
		{time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), &excelize.Style{NumFmt: 57}, "aug"},
		{time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), &excelize.Style{CustomNumFmt: &ymd}, "oct"},
		{"2023年9月1日", nil, "sep"},
		{time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), nil, "jun"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &[]any{"2023", "外科", r.date, r.title}))
		if r.style != nil {
			id, err := f.NewStyle(r.style)
			require.NoError(t, err)
			dateCell, err := excelize.CoordinatesToCellName(3, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle("Sheet1", dateCell, dateCell, id))
		}
	}
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadDataset(Options{InputFile: path})
	require.NoError(t, err)

	titles := make([]string, len(ds.Records))
	for i, r := range ds.Records {
		titles[i] = r["タイトル"]
	}
	assert.Equal(t, []string{"jun", "jul", "aug", "sep", "oct", "nov", "dec"}, titles)
	assert.Equal(t, 0, ds.UndatedRows)
	assert.Equal(t, "2023-07-01 00:00:00", ds.Records[1]["日付"])
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		variant  types.Variant
		expected string
	}{
		{"xlsx", "data/地域貢献.xlsx", types.VariantGrouped, "data/地域貢献_grouped.html"},
		{"csv", "outreach.csv", types.VariantCascade, "outreach_cascade.html"},
		{"no extension", "book", types.VariantCheckbox, "book_checkbox.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputPathFor(tt.input, tt.variant))
		})
	}
}
