package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/kouken/internal/types"

	"github.com/xuri/excelize/v2"
)

// HeaderSearchLimit is how many leading rows are scanned for the header.
const HeaderSearchLimit = 20

var (
	ErrEmptyFile = errors.New("empty file")
	ErrNoHeader  = errors.New("could not find header row")
)

// ReadFile reads the first sheet of an .xlsx workbook, or a .csv file, as text.
// The header row is the first row naming every column in required; when no
// row does, the densest of the leading rows is used.
func ReadFile(filePath string, required ...string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var (
		sheet string
		rows  [][]string
		err   error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		sheet, rows, err = readXLSXRows(filePath)
	case ".csv":
		sheet = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		rows, err = readCSVRows(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(sheet, rows, required)
}

func readXLSXRows(filePath string) (string, [][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if err := replaceDateCells(f, sheetName, rows, raw); err != nil {
		return "", nil, err
	}
	return sheetName, rows, nil
}

// DateLayout is the text form given to date-formatted workbook cells.
const DateLayout = "2006-01-02 15:04:05"

// replaceDateCells rewrites cells whose number format is a date or time as
// DateLayout text, or as a clock time when the serial has no date part.
func replaceDateCells(f *excelize.File, sheet string, rows, raw [][]string) error {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dateStyle := make(map[int]bool)
	for i, row := range raw {
		for j, v := range row {
			if i >= len(rows) || j >= len(rows[i]) {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil || serial < 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			idx, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return fmt.Errorf("style of %s: %w", cell, err)
			}
			isDate, seen := dateStyle[idx]
			if !seen {
				isDate = isDateStyle(f, idx)
				dateStyle[idx] = isDate
			}
			if !isDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			if serial < 1 {
				rows[i][j] = t.Format("15:04:05")
			} else {
				rows[i][j] = t.Format(DateLayout)
			}
		}
	}
	return nil
}

func isDateStyle(f *excelize.File, idx int) bool {
	if idx == 0 {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isDateNumFmt(style.NumFmt)
}

// isDateNumFmt reports whether a built-in number format ID shows a date or
// time, including the East Asian and Thai locale formats.
func isDateNumFmt(id int) bool {
	switch {
	case 14 <= id && id <= 22,
		27 <= id && id <= 36,
		45 <= id && id <= 47,
		50 <= id && id <= 58,
		71 <= id && id <= 81:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code uses date or time
// tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	section, _, _ := strings.Cut(code, ";")
	inQuote, inBracket := false, false
	for i := 0; i < len(section); i++ {
		c := section[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

func readCSVRows(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func buildTable(sheet string, rows [][]string, required []string) (*types.Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	headerRowIdx := findHeaderRow(rows, required)
	if headerRowIdx == -1 {
		return nil, ErrNoHeader
	}

	width := 0
	for _, row := range rows[headerRowIdx:] {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := normalizeHeaders(rows[headerRowIdx], width)

	var body [][]string
	for _, row := range rows[headerRowIdx+1:] {
		if isBlank(row) {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		body = append(body, padded)
	}

	return &types.Table{
		Sheet:     sheet,
		Headers:   headers,
		Rows:      body,
		HeaderRow: headerRowIdx,
	}, nil
}

// findHeaderRow returns the first leading row that contains every required
// column name, falling back to the row with the most non-empty cells.
func findHeaderRow(rows [][]string, required []string) int {
	searchLimit := len(rows)
	if searchLimit > HeaderSearchLimit {
		searchLimit = HeaderSearchLimit
	}

	if len(required) > 0 {
		for i := 0; i < searchLimit; i++ {
			if containsAll(rows[i], required) {
				return i
			}
		}
	}

	maxNonEmpty := 0
	headerIdx := -1
	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				nonEmptyCount++
			}
		}
		if nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

func containsAll(row []string, names []string) bool {
	present := make(map[string]bool, len(row))
	for _, cell := range row {
		present[strings.TrimSpace(cell)] = true
	}
	for _, name := range names {
		if !present[name] {
			return false
		}
	}
	return true
}

// normalizeHeaders trims header cells, names blank ones "Unnamed: <i>" and
// suffixes repeats with ".1", ".2", ... so every column name is unique.
func normalizeHeaders(row []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	taken := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = strings.TrimSpace(row[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		unique := name
		for taken[unique] {
			seen[name]++
			unique = name + "." + strconv.Itoa(seen[name])
		}
		taken[unique] = true
		headers[i] = unique
	}

	return headers
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
