package types

// Column names the generator depends on.
const (
	ColumnYear       = "年度"
	ColumnDepartment = "診療科"
	ColumnDate       = "日付"
)

// Table is a sheet read as text: trimmed, de-duplicated headers and rows
// padded to the header width.
type Table struct {
	Sheet     string
	Headers   []string
	Rows      [][]string
	HeaderRow int
}

// Record maps a column name to its cell text. Values are never missing; blank
// cells are stored as "".
type Record map[string]string

// Choices holds the distinct, sorted, non-empty values of the two filter
// dimensions. DepartmentsByYear nests departments under the year they occur in.
type Choices struct {
	Years             []string            `json:"年度"`
	Departments       []string            `json:"診療科"`
	DepartmentsByYear map[string][]string `json:"診療科By年度"`
}

// Dataset is the immutable snapshot embedded into the generated page.
type Dataset struct {
	Sheet   string
	Columns []string
	Records []Record
	Choices Choices

	// UndatedRows counts rows whose date column could not be parsed.
	UndatedRows int
}

// Variant selects the page's filter widgets.
type Variant string

const (
	VariantCheckbox Variant = "checkbox"
	VariantCascade  Variant = "cascade"
	VariantGrouped  Variant = "grouped"
)

// Variants lists every supported variant in menu order.
var Variants = []Variant{VariantCheckbox, VariantCascade, VariantGrouped}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// GenerationResult summarizes one generator run.
type GenerationResult struct {
	InputFile   string
	OutputFile  string
	Sheet       string
	Variant     Variant
	Columns     []string
	RowsWritten int
	UndatedRows int
}
