package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyne-io/ttyl"
)

// renderColor prints each run of cells that share colors with one lipgloss style.
func renderColor(s ttyl.Snapshot, history bool) string {
	rows := s.Active
	if history {
		rows = append(append([]ttyl.Row{}, s.Scrollback...), s.Active...)
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = renderRow(s, r)
	}
	return strings.Join(lines, "\n")
}

func renderRow(s ttyl.Snapshot, r ttyl.Row) string {
	cells := trimBlank(r.Cells)
	var b strings.Builder
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].FG == cells[start].FG && cells[end].BG == cells[start].BG {
			end++
		}

		var run strings.Builder
		for _, c := range cells[start:end] {
			run.WriteRune(c.Rune)
		}
		style := lipgloss.NewStyle().
			Foreground(hexColor(s.Resolve(cells[start].FG))).
			Background(hexColor(s.Resolve(cells[start].BG)))
		b.WriteString(style.Render(run.String()))
		start = end
	}
	return b.String()
}

// trimBlank drops trailing spaces that still have the default colors.
func trimBlank(cells []ttyl.Cell) []ttyl.Cell {
	end := len(cells)
	for end > 0 {
		c := cells[end-1]
		if c.Rune != ' ' || c.FG != ttyl.DefaultForeground || c.BG != ttyl.DefaultBackground {
			break
		}
		end--
	}
	return cells[:end]
}

func hexColor(c ttyl.RGB) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
