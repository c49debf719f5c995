package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/kouken/internal/generator"
	"github.com/nconklindev/kouken/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateVariantSelection
	stateProcessing
	stateComplete
	stateError
)

// Model is the generation wizard: pick a workbook, pick a page variant,
// generate.
type Model struct {
	state        state
	filepicker   filepicker.Model
	base         generator.Options
	selectedFile string
	dataset      *types.Dataset
	cursor       int
	result       *types.GenerationResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan generationResultMsg
}

type generationResultMsg struct {
	result *types.GenerationResult
	err    error
}

type fileLoadedMsg struct {
	data *types.Dataset
	err  error
}

type generationCompleteMsg struct {
	result *types.GenerationResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel returns the wizard at the file picker. Fields set in base
// (title, output, column order) apply to the generated page.
func InitialModel(base generator.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".csv"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accentColor)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlightColor)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlightColor)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(mutedColor)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(mutedColor)

	prog := progress.New(progress.WithGradient("#2E7D6B", "#5FB49C"))

	cursor := 0
	for i, v := range types.Variants {
		if v == base.Variant {
			cursor = i
		}
	}

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		base:       base,
		cursor:     cursor,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateVariantSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(types.Variants)-1 {
					m.cursor++
				}
			case "b":
				b := NewBrowser(m.dataset, m.selectedFile)
				b.width, b.height = m.width, m.height
				b.resize()
				return b, nil
			case "enter":
				m.state = stateProcessing
				return m.generate()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.dataset = msg.data
		m.state = stateVariantSelection
		return m, nil

	case generationCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	opts := m.base
	opts.InputFile = path
	return func() tea.Msg {
		data, err := generator.LoadDataset(opts)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) generate() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan generationResultMsg, 1)

	opts := m.base
	opts.InputFile = m.selectedFile
	opts.Variant = types.Variants[m.cursor]
	if opts.OutputFile == "" {
		opts.OutputFile = generator.OutputPathFor(m.selectedFile, opts.Variant)
	}

	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := generator.Generate(opts, progressChan)

				resultChan <- generationResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan generationResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return generationCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateVariantSelection:
		return m.viewVariantSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

var variantDescriptions = map[types.Variant]string{
	types.VariantCheckbox: "年度・診療科をそれぞれ複数選択（ドロップダウン＋チェックボックス）",
	types.VariantCascade:  "年度を選ぶと診療科が絞り込まれる（セレクトボックス）",
	types.VariantGrouped:  "年度ごとに折りたたみ可能な診療科チェックリスト",
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("地域貢献 検索ページ生成"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an .xlsx or .csv file with 年度 and 診療科 columns"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewVariantSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Select Page Variant"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ %d records, %d 年度, %d 診療科",
		len(m.dataset.Records), len(m.dataset.Choices.Years), len(m.dataset.Choices.Departments))))
	s.WriteString("\n")
	if m.dataset.UndatedRows > 0 {
		s.WriteString(UnselectedStyle.Render(fmt.Sprintf("  %d row(s) with unreadable 日付 will be listed last", m.dataset.UndatedRows)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	for i, v := range types.Variants {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %-9s %s", cursor, v, variantDescriptions[v])
		if m.cursor == i {
			line = SelectedStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: generate • b: browse in terminal • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Generating..."))
	s.WriteString("\n\n")
	s.WriteString("Embedding records into the search page...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ 生成完了"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:   %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:  %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Sheet:   %s\n", m.result.Sheet))
	s.WriteString(fmt.Sprintf("Variant: %s\n", m.result.Variant))
	s.WriteString(fmt.Sprintf("Records: %d\n", m.result.RowsWritten))
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(m.result.Columns, ", ")))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(p string, max int) string {
	r := []rune(p)
	if len(r) <= max {
		return p
	}
	return "..." + string(r[len(r)-max+3:])
}
