package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/kouken/internal/csvexport"
	"github.com/nconklindev/kouken/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sampleDataset() *types.Dataset {
	return &types.Dataset{
		Sheet:   "統合",
		Columns: []string{"年度", "診療科", "タイトル"},
		Records: []types.Record{
			{"年度": "2023", "診療科": "Surgery", "タイトル": "a"},
			{"年度": "2023", "診療科": "Cardiology", "タイトル": "b"},
			{"年度": "2024", "診療科": "Surgery", "タイトル": "c"},
		},
		Choices: types.Choices{
			Years:       []string{"2023", "2024"},
			Departments: []string{"Cardiology", "Surgery"},
			DepartmentsByYear: map[string][]string{
				"2023": {"Cardiology", "Surgery"},
				"2024": {"Surgery"},
			},
		},
	}
}

func press(t *testing.T, b Browser, keys ...tea.KeyMsg) Browser {
	t.Helper()
	for _, k := range keys {
		m, _ := b.Update(k)
		var ok bool
		b, ok = m.(Browser)
		require.True(t, ok, "browser replaced by %T", m)
	}
	return b
}

func TestNewBrowser_ShowsEverything(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")

	assert.Len(t, b.rows, 3)
	assert.Equal(t, []string{"Cardiology", "Surgery"}, b.depts)
	assert.Equal(t, csvexport.DefaultFileName, b.exportPath)
	assert.Contains(t, b.View(), "3 件")
}

func TestBrowser_ExportPathFollowsSource(t *testing.T) {
	b := NewBrowser(sampleDataset(), filepath.Join("data", "地域貢献_統合.xlsx"))
	assert.Equal(t, filepath.Join("data", csvexport.DefaultFileName), b.exportPath)
}

func TestBrowser_Toggle(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")

	b = press(t, b, keySpace)
	assert.Equal(t, []string{"2023"}, b.sel.Values(types.ColumnYear))
	assert.Len(t, b.rows, 2)

	b = press(t, b, keySpace)
	assert.True(t, b.sel.IsEmpty())
	assert.Len(t, b.rows, 3)
}

func TestBrowser_YearChangePrunesDepartments(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")

	// check Cardiology in the department pane
	b = press(t, b, keyTab, keySpace)
	assert.Equal(t, []string{"Cardiology"}, b.sel.Values(types.ColumnDepartment))
	require.Len(t, b.rows, 1)
	assert.Equal(t, "b", b.rows[0]["タイトル"])

	// then check 2024, which has no Cardiology
	b = press(t, b, keyShiftTab, keyDown, keySpace)
	assert.Equal(t, []string{"2024"}, b.sel.Values(types.ColumnYear))
	assert.Equal(t, []string{"Surgery"}, b.depts)
	assert.Empty(t, b.sel.Values(types.ColumnDepartment))
	require.Len(t, b.rows, 1)
	assert.Equal(t, "c", b.rows[0]["タイトル"])
}

func TestBrowser_SelectAllAndClear(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")

	b = press(t, b, keyTab, runeKey('a'))
	assert.Equal(t, []string{"Cardiology", "Surgery"}, b.sel.Values(types.ColumnDepartment))
	assert.Len(t, b.rows, 3)

	b = press(t, b, runeKey('c'))
	assert.True(t, b.sel.IsEmpty())
}

func TestBrowser_CursorStaysInRange(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")
	b = press(t, b, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, b.yearCursor)

	b = press(t, b, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, b.yearCursor)
}

func TestBrowser_Export(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")
	b.exportPath = filepath.Join(t.TempDir(), csvexport.DefaultFileName)

	b = press(t, b, keyTab, keyDown, keySpace, runeKey('e'))
	assert.Contains(t, b.status, "2 件")

	data, err := os.ReadFile(b.exportPath)
	require.NoError(t, err)
	assert.Equal(t, "年度,診療科,タイトル\n2023,Surgery,a\n2024,Surgery,c", string(data))
}

func TestBrowser_ExportEmptyResult(t *testing.T) {
	ds := &types.Dataset{Columns: []string{"年度", "診療科"}}
	b := NewBrowser(ds, "")
	b.exportPath = filepath.Join(t.TempDir(), csvexport.DefaultFileName)

	assert.Contains(t, b.View(), "該当するデータがありません。")

	b = press(t, b, runeKey('e'))
	assert.Contains(t, b.status, "出力対象がありません。")

	_, err := os.Stat(b.exportPath)
	assert.True(t, os.IsNotExist(err))
}

func TestBrowser_Quit(t *testing.T) {
	b := NewBrowser(sampleDataset(), "")
	_, cmd := b.Update(runeKey('q'))
	assert.NotNil(t, cmd)
}

func TestTableColumns(t *testing.T) {
	records := []types.Record{
		{"年度": "2023", "タイトル": "とても長いタイトルがここに入ります。さらに続きます"},
	}
	cols := tableColumns([]string{"年度", "タイトル", "x"}, records)

	require.Len(t, cols, 3)
	assert.Equal(t, 4, cols[0].Width, "年度 is four cells wide")
	assert.Equal(t, maxColumnWidth, cols[1].Width)
	assert.Equal(t, minColumnWidth, cols[2].Width)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		i, n, expected int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{2, 3, 2},
		{5, 3, 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, clamp(tt.i, tt.n))
	}
}
