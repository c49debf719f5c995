// Package render writes the self-contained search page: the dataset and its
// choices embedded as JSON literals, plus the filtering and CSV export script.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/nconklindev/kouken/internal/csvexport"
	"github.com/nconklindev/kouken/internal/types"
)

// Page describes the chrome around the embedded data.
type Page struct {
	Variant        types.Variant
	Title          string
	SourceFile     string
	ExportFileName string
}

// Renderer writes search pages.
type Renderer struct {
	nowFunc func() time.Time
}

// NewRenderer returns a Renderer stamped with the current time.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// DefaultTitle returns the heading used when none is configured.
func DefaultTitle(v types.Variant) string {
	switch v {
	case types.VariantCascade:
		return "地域貢献データ 年度×診療科 検索アプリ"
	case types.VariantGrouped:
		return "地域貢献 年度別・診療科一覧"
	default:
		return "地域貢献"
	}
}

var (
	pageTmplOnce sync.Once
	pageTmpls    map[types.Variant]*template.Template
)

func pageTemplates() map[types.Variant]*template.Template {
	pageTmplOnce.Do(func() {
		base := template.Must(template.New("page").Funcs(template.FuncMap{
			"json": func(v any) template.JS {
				b, _ := json.Marshal(v)
				return template.JS(b) //nolint:gosec // json.Marshal escapes <, > and &
			},
		}).Parse(pageTemplate))

		pageTmpls = make(map[types.Variant]*template.Template, len(variantTemplates))
		for v, src := range variantTemplates {
			pageTmpls[v] = template.Must(template.Must(base.Clone()).Parse(src))
		}
	})
	return pageTmpls
}

// pageData holds all template data for one page.
type pageData struct {
	Title          string
	SourceFile     string
	Sheet          string
	GeneratedAt    string
	ExportFileName string
	Total          int
	Columns        []string
	Records        []types.Record
	Choices        types.Choices
}

// Render writes the page for ds to w.
func (r *Renderer) Render(w io.Writer, ds *types.Dataset, page Page) error {
	if page.Variant == "" {
		page.Variant = types.VariantCheckbox
	}
	tmpl, ok := pageTemplates()[page.Variant]
	if !ok {
		return fmt.Errorf("unknown variant %q", page.Variant)
	}

	now := time.Now()
	if r.nowFunc != nil {
		now = r.nowFunc()
	}

	data := pageData{
		Title:          page.Title,
		SourceFile:     page.SourceFile,
		Sheet:          ds.Sheet,
		GeneratedAt:    now.Format("2006-01-02 15:04:05"),
		ExportFileName: page.ExportFileName,
		Total:          len(ds.Records),
		Columns:        ds.Columns,
		Records:        ds.Records,
		Choices:        ds.Choices,
	}
	if data.Title == "" {
		data.Title = DefaultTitle(page.Variant)
	}
	if data.ExportFileName == "" {
		data.ExportFileName = csvexport.DefaultFileName
	}
	if data.Records == nil {
		data.Records = []types.Record{}
	}
	if data.Columns == nil {
		data.Columns = []string{}
	}
	if data.Choices.Years == nil {
		data.Choices.Years = []string{}
	}
	if data.Choices.Departments == nil {
		data.Choices.Departments = []string{}
	}
	if data.Choices.DepartmentsByYear == nil {
		data.Choices.DepartmentsByYear = map[string][]string{}
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}
