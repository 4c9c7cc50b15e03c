// Package format renders diversion listings for terminal output.
package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// LocalLabel is shown in place of a package name for local diversions.
const LocalLabel = "local"

// HolderLabel returns the display form of a diversion holder.
func HolderLabel(holder string) string {
	if holder == "" {
		return LocalLabel
	}
	return holder
}

// Table renders headers and rows with aligned columns and no borders.
// lipgloss/table computes the column widths from the content.
func Table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var out strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	out.WriteString(t.String())
	out.WriteString("\n")

	return out.String()
}
