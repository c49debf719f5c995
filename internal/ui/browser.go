package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/kouken/internal/csvexport"
	"github.com/nconklindev/kouken/internal/filter"
	"github.com/nconklindev/kouken/internal/types"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	paneYears pane = iota
	paneDepartments
	paneTable
)

const (
	maxColumnWidth = 24
	minColumnWidth = 4
	listHeight     = 8
)

// Browser filters a dataset by 年度 and 診療科 in the terminal and exports the
// current result as CSV.
type Browser struct {
	ds         *types.Dataset
	source     string
	sel        *filter.Selection
	focus      pane
	yearCursor int
	deptCursor int
	depts      []string
	rows       []types.Record
	table      table.Model
	status     string
	exportPath string
	width      int
	height     int
}

// NewBrowser returns a Browser over ds with nothing selected.
func NewBrowser(ds *types.Dataset, source string) Browser {
	t := table.New(
		table.WithColumns(tableColumns(ds.Columns, ds.Records)),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accentColor)
	t.SetStyles(s)

	b := Browser{
		ds:         ds,
		source:     source,
		sel:        filter.NewSelection(),
		table:      t,
		exportPath: csvexport.DefaultFileName,
	}
	if source != "" {
		b.exportPath = filepath.Join(filepath.Dir(source), csvexport.DefaultFileName)
	}
	b.recompute()
	return b
}

func (b Browser) Init() tea.Cmd {
	return nil
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.resize()
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return b, tea.Quit
		case "tab":
			b.setFocus((b.focus + 1) % 3)
			return b, nil
		case "shift+tab":
			b.setFocus((b.focus + 2) % 3)
			return b, nil
		case "e":
			b.export()
			return b, nil
		}

		if b.focus == paneTable {
			var cmd tea.Cmd
			b.table, cmd = b.table.Update(msg)
			return b, cmd
		}

		switch msg.String() {
		case "up", "k":
			b.moveCursor(-1)
		case "down", "j":
			b.moveCursor(1)
		case " ", "space", "enter":
			b.toggleCurrent()
		case "a":
			b.selectAll()
		case "c":
			b.clearPane()
		}
	}

	return b, nil
}

func (b *Browser) setFocus(p pane) {
	b.focus = p
	if p == paneTable {
		b.table.Focus()
	} else {
		b.table.Blur()
	}
}

func (b *Browser) moveCursor(delta int) {
	switch b.focus {
	case paneYears:
		b.yearCursor = clamp(b.yearCursor+delta, len(b.ds.Choices.Years))
	case paneDepartments:
		b.deptCursor = clamp(b.deptCursor+delta, len(b.depts))
	}
}

func (b *Browser) toggleCurrent() {
	switch b.focus {
	case paneYears:
		if len(b.ds.Choices.Years) == 0 {
			return
		}
		b.sel.Toggle(types.ColumnYear, b.ds.Choices.Years[b.yearCursor])
	case paneDepartments:
		if len(b.depts) == 0 {
			return
		}
		b.sel.Toggle(types.ColumnDepartment, b.depts[b.deptCursor])
	}
	b.recompute()
}

func (b *Browser) selectAll() {
	switch b.focus {
	case paneYears:
		b.sel.Set(types.ColumnYear, b.ds.Choices.Years...)
	case paneDepartments:
		b.sel.Set(types.ColumnDepartment, b.depts...)
	}
	b.recompute()
}

func (b *Browser) clearPane() {
	switch b.focus {
	case paneYears:
		b.sel.Clear(types.ColumnYear)
	case paneDepartments:
		b.sel.Clear(types.ColumnDepartment)
	}
	b.recompute()
}

// recompute refreshes the department candidates for the checked years, drops
// departments that are no longer offered and re-filters the table.
func (b *Browser) recompute() {
	b.sel.PruneDepartments(b.ds.Choices)
	b.depts = filter.DepartmentCandidates(b.ds.Choices, b.sel.Values(types.ColumnYear))
	b.deptCursor = clamp(b.deptCursor, len(b.depts))

	b.rows = filter.Evaluate(b.ds.Records, b.sel)
	b.table.SetRows(tableRows(b.ds.Columns, b.rows))
	if len(b.rows) > 0 {
		b.table.SetCursor(0)
	}
	b.status = ""
}

func (b *Browser) export() {
	err := csvexport.WriteFile(b.exportPath, b.ds.Columns, b.rows)
	switch {
	case errors.Is(err, csvexport.ErrNoRows):
		b.status = ErrorStyle.Render(err.Error())
	case err != nil:
		b.status = ErrorStyle.Render("✗ " + err.Error())
	default:
		b.status = SuccessStyle.Render(fmt.Sprintf("✓ %d 件を %s に保存しました", len(b.rows), b.exportPath))
	}
}

func (b *Browser) resize() {
	h := b.height - listHeight - 14
	if h < 3 {
		h = 3
	}
	b.table.SetHeight(h)
	if b.width > 0 {
		b.table.SetWidth(b.width - 2)
	}
}

func (b Browser) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("地域貢献－検索結果"))
	s.WriteString("\n")
	if b.source != "" {
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s ／ シート: %s", filepath.Base(b.source), b.ds.Sheet)))
		s.WriteString("\n")
	}

	years := b.renderList("年度", b.ds.Choices.Years, types.ColumnYear, b.yearCursor, b.focus == paneYears)
	depts := b.renderList("診療科", b.depts, types.ColumnDepartment, b.deptCursor, b.focus == paneDepartments)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, years, " ", depts))
	s.WriteString("\n")

	s.WriteString(fmt.Sprintf("選択中 → 年度: %s ／ 診療科: %s\n",
		badge(b.sel.Values(types.ColumnYear)), badge(b.sel.Values(types.ColumnDepartment))))
	s.WriteString(CheckedStyle.Render(fmt.Sprintf("%d 件", len(b.rows))))
	s.WriteString("\n")

	if len(b.rows) == 0 {
		s.WriteString(UnselectedStyle.Render("該当するデータがありません。"))
	} else {
		style := PaneStyle
		if b.focus == paneTable {
			style = FocusedPaneStyle
		}
		s.WriteString(style.Render(b.table.View()))
	}
	s.WriteString("\n")

	if b.status != "" {
		s.WriteString(b.status)
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("tab: switch pane • ↑/↓: move • space: toggle • a: select all • c: clear • e: export CSV • q: quit"))

	return s.String()
}

func (b Browser) renderList(title string, values []string, dim string, cursor int, focused bool) string {
	var s strings.Builder
	s.WriteString(SelectedStyle.Render(title))
	s.WriteString("\n")

	start := 0
	if cursor >= listHeight {
		start = cursor - listHeight + 1
	}
	end := start + listHeight
	if end > len(values) {
		end = len(values)
	}

	if len(values) == 0 {
		s.WriteString(UnselectedStyle.Render("（候補なし）"))
		s.WriteString("\n")
	}
	for i := start; i < end; i++ {
		pointer := " "
		if focused && i == cursor {
			pointer = ">"
		}
		checked := " "
		if b.sel.Has(dim, values[i]) {
			checked = "✓"
		}
		line := fmt.Sprintf("%s [%s] %s", pointer, checked, values[i])
		switch {
		case focused && i == cursor:
			line = SelectedStyle.Render(line)
		case checked == "✓":
			line = CheckedStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	style := PaneStyle
	if focused {
		style = FocusedPaneStyle
	}
	return style.Render(strings.TrimSuffix(s.String(), "\n"))
}

func badge(values []string) string {
	if len(values) == 0 {
		return "未選択"
	}
	return strings.Join(values, ", ")
}

// tableColumns sizes each column to its widest cell, measured in terminal
// cells so full-width text lines up.
func tableColumns(columns []string, records []types.Record) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		w := lipgloss.Width(c)
		for _, r := range records {
			if cw := lipgloss.Width(r[c]); cw > w {
				w = cw
			}
		}
		w = max(minColumnWidth, min(w, maxColumnWidth))
		cols[i] = table.Column{Title: c, Width: w}
	}
	return cols
}

func tableRows(columns []string, records []types.Record) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		row := make(table.Row, len(columns))
		for j, c := range columns {
			row[j] = strings.ReplaceAll(r[c], "\n", " ")
		}
		rows[i] = row
	}
	return rows
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
