// Package formatter renders tables as aligned markdown for terminal reports.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps separator cells at least "---".
const minColumnWidth = 3

// Alignment of a column's cells.
type Alignment int

// Alignments.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table renders headers and rows as a markdown table whose columns are
// padded to the same display width. Rows shorter than the header are padded
// with empty cells. align may be shorter than headers; missing entries are
// left aligned.
func Table(headers []string, rows [][]string, align ...Alignment) string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(strings.TrimSpace(row[i])); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(headers)

	for _, row := range rows {
		measure(row)
	}

	alignment := make([]Alignment, colCount)
	copy(alignment, align)

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(headers, colWidths, alignment))
	lines = append(lines, renderSeparator(colWidths, alignment))

	for _, row := range rows {
		lines = append(lines, renderRow(row, colWidths, alignment))
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRow(row []string, colWidths []int, alignment []Alignment) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = strings.TrimSpace(row[j])
		}

		// Pad with spaces based on display width
		padding := strings.Repeat(" ", max(width-runewidth.StringWidth(content), 0))

		sb.WriteString(" ")

		if alignment[j] == AlignRight {
			sb.WriteString(padding)
			sb.WriteString(content)
		} else {
			sb.WriteString(content)
			sb.WriteString(padding)
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(colWidths []int, alignment []Alignment) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if alignment[j] == AlignRight {
			sb.WriteString(strings.Repeat("-", width-1))
			sb.WriteString(":")
		} else {
			sb.WriteString(strings.Repeat("-", width))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
