package csvexport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/kouken/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "外科", "外科"},
		{"Empty", "", ""},
		{"Comma", "a,b", `"a,b"`},
		{"Quote", `say "hi"`, `"say ""hi"""`},
		{"Newline", "line1\nline2", "\"line1\nline2\""},
		{"Quote and comma", `He said "hi", ok`, `"He said ""hi"", ok"`},
		{"Leading space is not quoted", " a", " a"},
		{"Carriage return alone is not quoted", "a\rb", "a\rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteField(tt.input))
		})
	}
}

func TestEncode(t *testing.T) {
	columns := []string{"年度", "診療科", "タイトル"}
	records := []types.Record{
		{"年度": "2023", "診療科": "外科", "タイトル": `He said "hi", ok`},
		{"年度": "2024", "診療科": "内科", "タイトル": ""},
	}

	got, err := Encode(columns, records)
	require.NoError(t, err)

	expected := "年度,診療科,タイトル\n" +
		"2023,外科,\"He said \"\"hi\"\", ok\"\n" +
		"2024,内科,"
	assert.Equal(t, expected, got)
}

func TestEncode_MissingFieldIsBlank(t *testing.T) {
	got, err := Encode([]string{"a", "b"}, []types.Record{{"a": "1"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,", got)
}

func TestEncode_NoRows(t *testing.T) {
	_, err := Encode([]string{"年度"}, nil)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.Equal(t, "出力対象がありません。", err.Error())
}

func TestEncode_RoundTrip(t *testing.T) {
	columns := []string{"年度", "診療科", "タイトル", "特記事項"}
	records := []types.Record{
		{"年度": "2023", "診療科": "外科", "タイトル": "a, b", "特記事項": `"quoted"`},
		{"年度": "2023", "診療科": "内科", "タイトル": "two\nlines", "特記事項": ""},
		{"年度": "2024", "診療科": "眼科", "タイトル": `mix "of", all` + "\nthree", "特記事項": "plain"},
	}

	text, err := Encode(columns, records)
	require.NoError(t, err)

	parsed, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(records)+1)

	assert.Equal(t, columns, parsed[0])
	for i, r := range records {
		for j, c := range columns {
			assert.Equal(t, r[c], parsed[i+1][j], "row %d column %s", i, c)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes utf-8 text", func(t *testing.T) {
		path := filepath.Join(dir, DefaultFileName)
		err := WriteFile(path, []string{"年度"}, []types.Record{{"年度": "2023"}})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "年度\n2023", string(data))
	})

	t.Run("refuses empty selection", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		err := WriteFile(path, []string{"年度"}, []types.Record{})
		assert.ErrorIs(t, err, ErrNoRows)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "nothing is written for an empty selection")
	})
}
