package formatter

import (
	"strings"

	"newsflat/internal/models"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// FormatTable renders a header and rows as a markdown table whose columns
// are padded to the widest cell. Widths are display widths, so CJK text and
// emoji line up in a terminal.
func FormatTable(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)
	table = append(table, rows...)

	// 1. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(escapeCell(row[i]))
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	// 2. Reconstruct lines
	lines := make([]string, 0, len(table)+1)
	lines = append(lines, formatRow(header, colWidths))

	separator := make([]string, colCount)
	for i, w := range colWidths {
		separator[i] = strings.Repeat("-", w)
	}

	lines = append(lines, formatRow(separator, colWidths))

	for _, row := range rows {
		lines = append(lines, formatRow(row, colWidths))
	}

	return strings.Join(lines, "\n")
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = escapeCell(row[j])
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Preview renders the first limit records restricted to columns. Cells
// wider than maxWidth display columns are cut and end in "..."; a maxWidth
// of zero disables truncation.
func Preview(records []models.FlatRecord, columns []string, limit, maxWidth int) string {
	if limit <= 0 || len(columns) == 0 {
		return ""
	}

	if limit > len(records) {
		limit = len(records)
	}

	rows := make([][]string, 0, limit)

	for _, record := range records[:limit] {
		row := make([]string, len(columns))

		for i, column := range columns {
			value, ok := record[column]
			if !ok {
				continue
			}

			text, err := FormatValue(value)
			if err != nil {
				text = "<" + value.Kind.String() + ">"
			}

			if maxWidth > 0 {
				text = runewidth.Truncate(text, maxWidth, "...")
			}

			row[i] = text
		}

		rows = append(rows, row)
	}

	return FormatTable(columns, rows)
}
