package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("99")
	colorSubtle = lipgloss.Color("238")
	colorGray   = lipgloss.Color("245")
)

// renderTable renders headers and rows as a bordered table.
// Cells equal to "-" are dimmed.
func renderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(colorGray).Render("  (no data)")
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	dimCellStyle := cellStyle.
		Foreground(colorGray)

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && col < len(rows[row]) && rows[row][col] == "-" {
				return dimCellStyle
			}
			return cellStyle
		})

	return t.Render()
}
