package dataset

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nconklindev/kouken/internal/datenorm"
	"github.com/nconklindev/kouken/internal/types"
)

// Preferred column orders. Columns not listed keep their sheet order after
// the listed ones.
var (
	DefaultPreferredColumns = []string{
		"年度", "事業所", "診療科", "発表者", "日付", "タイトル", "主催/共催", "形態", "特記事項（年代、エリア限定等）",
	}
	CascadePreferredColumns = []string{
		"年度", "診療科", "日付", "事業所", "発表者", "タイトル", "主催/共催", "形態", "特記事項（年代、エリア限定等）",
	}
)

// RequiredColumns must be present for a dataset to be built.
var RequiredColumns = []string{types.ColumnYear, types.ColumnDepartment}

// MissingColumnsError reports required columns absent from the sheet.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Excelに『年度』『診療科』列が必要です。 (missing: %s)", strings.Join(e.Columns, ", "))
}

// Options controls how a Table becomes a Dataset.
type Options struct {
	PreferredColumns []string
	// DateColumn orders records when present. Empty means types.ColumnDate.
	DateColumn string
}

// PreferredColumnsFor returns the built-in column order for a variant.
func PreferredColumnsFor(v types.Variant) []string {
	if v == types.VariantCascade {
		return CascadePreferredColumns
	}
	return DefaultPreferredColumns
}

// Build validates the table, orders its rows by date and computes the
// filter choices.
func Build(table *types.Table, opts Options) (*types.Dataset, error) {
	if missing := missingColumns(table.Headers, RequiredColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	records := make([]types.Record, len(table.Rows))
	for i, row := range table.Rows {
		rec := make(types.Record, len(table.Headers))
		for j, h := range table.Headers {
			if j < len(row) {
				rec[h] = row[j]
			} else {
				rec[h] = ""
			}
		}
		records[i] = rec
	}

	dateColumn := opts.DateColumn
	if dateColumn == "" {
		dateColumn = types.ColumnDate
	}

	undated := 0
	if slices.Contains(table.Headers, dateColumn) {
		undated = datenorm.SortStable(records, func(r types.Record) string { return r[dateColumn] })
		if undated > 0 {
			slog.Debug("rows with unparseable dates sorted last", "column", dateColumn, "count", undated)
		}
	}

	preferred := opts.PreferredColumns
	if preferred == nil {
		preferred = DefaultPreferredColumns
	}

	return &types.Dataset{
		Sheet:       table.Sheet,
		Columns:     OrderColumns(table.Headers, preferred),
		Records:     records,
		Choices:     BuildChoices(records),
		UndatedRows: undated,
	}, nil
}

// OrderColumns puts the preferred columns that exist first, then the rest in
// their original order.
func OrderColumns(headers, preferred []string) []string {
	cols := make([]string, 0, len(headers))
	for _, p := range preferred {
		if slices.Contains(headers, p) && !slices.Contains(cols, p) {
			cols = append(cols, p)
		}
	}
	for _, h := range headers {
		if !slices.Contains(preferred, h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// BuildChoices collects the sorted distinct non-empty years and departments,
// plus the departments seen under each year.
func BuildChoices(records []types.Record) types.Choices {
	years := make(map[string]bool)
	depts := make(map[string]bool)
	byYear := make(map[string]map[string]bool)

	for _, r := range records {
		y, d := r[types.ColumnYear], r[types.ColumnDepartment]
		if y != "" {
			years[y] = true
			if byYear[y] == nil {
				byYear[y] = make(map[string]bool)
			}
			if d != "" {
				byYear[y][d] = true
			}
		}
		if d != "" {
			depts[d] = true
		}
	}

	choices := types.Choices{
		Years:             sortedKeys(years),
		Departments:       sortedKeys(depts),
		DepartmentsByYear: make(map[string][]string, len(byYear)),
	}
	for y, set := range byYear {
		choices.DepartmentsByYear[y] = sortedKeys(set)
	}
	return choices
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func missingColumns(headers, required []string) []string {
	var missing []string
	for _, c := range required {
		if !slices.Contains(headers, c) {
			missing = append(missing, c)
		}
	}
	return missing
}
