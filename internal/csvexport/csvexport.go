// Package csvexport serializes filtered records the same way the generated
// page's download button does.
package csvexport

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nconklindev/kouken/internal/types"
)

// DefaultFileName is the name offered for exported selections.
const DefaultFileName = "地域貢献_filtered_export.csv"

// ErrNoRows is returned when there is nothing to export. Its text is the
// notice shown to the user.
var ErrNoRows = errors.New("出力対象がありません。")

// Encode renders a header line followed by one line per record, joined with
// "\n" and without a trailing newline.
func Encode(columns []string, records []types.Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRows
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	for _, r := range records {
		b.WriteByte('\n')
		for i, c := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(QuoteField(r[c]))
		}
	}
	return b.String(), nil
}

// QuoteField wraps v in double quotes, doubling inner quotes, when it
// contains a comma, a double quote or a newline. Other values pass through.
func QuoteField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// WriteFile encodes records and writes them to path as UTF-8.
func WriteFile(path string, columns []string, records []types.Record) error {
	text, err := Encode(columns, records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //nolint:gosec // export is meant to be readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
