package formatter

import (
	"strings"
	"testing"

	"newsflat/internal/models"
)

func TestFormatTable(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "Basic table formatting",
			header: []string{"Header 1", "Header 2"},
			rows:   [][]string{{"val 1", "val 2"}},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name:   "Minimum width",
			header: []string{"H1", "H2"},
			rows:   [][]string{{"v1", "v2"}},
			expected: `
| H1  | H2  |
| --- | --- |
| v1  | v2  |
`,
		},
		{
			name:   "Short rows are padded",
			header: []string{"Col A", "Col B"},
			rows:   [][]string{{"A"}},
			expected: `
| Col A | Col B |
| ----- | ----- |
| A     |       |
`,
		},
		{
			name:   "Pipes are escaped",
			header: []string{"source"},
			rows:   [][]string{{"a|b"}},
			expected: `
| source |
| ------ |
| a\|b   |
`,
		},
		{
			name:   "Mixed CJK and ASCII",
			header: []string{"Date", "Event"},
			rows: [][]string{
				{"2025-01-01", "消防處：增至83死。"},
				{"2025-01-02", "Short text"},
			},
			// 消防處(6) + ：(2) + 增至(4) + 83(2) + 死(2) + 。(2) = 18 display columns.
			expected: `
| Date       | Event              |
| ---------- | ------------------ |
| 2025-01-01 | 消防處：增至83死。 |
| 2025-01-02 | Short text         |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTable(tt.header, tt.rows)
			if got != strings.TrimSpace(tt.expected) {
				t.Errorf("FormatTable() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestFormatTable_Empty(t *testing.T) {
	if got := FormatTable(nil, nil); got != "" {
		t.Errorf("FormatTable(nil, nil) = %q, want empty", got)
	}
}

func TestPreview(t *testing.T) {
	records := []models.FlatRecord{
		{"title": models.String("Hello World"), "from_json": models.String("a.json")},
		{"from_json": models.String("b.json")},
		{"title": models.String("third"), "from_json": models.String("c.json")},
	}

	got := Preview(records, []string{"from_json", "title"}, 2, 8)

	expected := strings.TrimSpace(`
| from_json | title    |
| --------- | -------- |
| a.json    | Hello... |
| b.json    |          |
`)

	if got != expected {
		t.Errorf("Preview() = \n%v\nwant \n%v", got, expected)
	}
}

func TestPreview_Disabled(t *testing.T) {
	records := []models.FlatRecord{{"title": models.String("x")}}

	if got := Preview(records, []string{"title"}, 0, 0); got != "" {
		t.Errorf("Preview(limit 0) = %q, want empty", got)
	}

	if got := Preview(records, nil, 5, 0); got != "" {
		t.Errorf("Preview(no columns) = %q, want empty", got)
	}
}
