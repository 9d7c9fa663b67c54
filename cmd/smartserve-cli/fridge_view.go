package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartserve/internal/fridge"
)

var (
	emptyCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	previewOK   = lipgloss.NewStyle().Background(lipgloss.Color("#30d158"))
	previewBad  = lipgloss.NewStyle().Background(lipgloss.Color("#ff453a"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

// fridgeView draws the grid with the selected item previewed at the cursor,
// followed by the score line and the items left to place.
func fridgeView(s fridge.Session, cursorRow, cursorCol int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pack the Fridge") + "\n\n")
	b.WriteString(renderGrid(s, cursorRow, cursorCol))

	fmt.Fprintf(&b, "\nScore: %d   Space used: %s\n", s.Score, fridge.FormatUtilization(s.Utilization))
	b.WriteString(infoStyle.Render(s.Message) + "\n\n")

	if len(s.Available) == 0 {
		b.WriteString(successStyle.Render("Everything is packed!") + "\n")
	}
	for i, it := range s.Available {
		marker := "  "
		if it.ID == s.Selected {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%d. %s %s (%d cells)\n", marker, i+1, it.Icon, it.Name, it.CellCount())
	}

	b.WriteString(helpStyle.Render("\narrows move, 1-9/tab select, enter place, r reset, esc back"))
	return b.String()
}

func renderGrid(s fridge.Session, cursorRow, cursorCol int) string {
	sel, selected := s.SelectedItem()
	fits := selected && fridge.CanPlace(s.Grid, sel.Shape, cursorRow, cursorCol)

	var b strings.Builder
	for r := 0; r < s.Grid.Rows(); r++ {
		for c := 0; c < s.Grid.Cols(); c++ {
			b.WriteString(renderCell(s.Grid.At(r, c), r, c, cursorRow, cursorCol, sel, selected, fits))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(cell fridge.Cell, r, c, cursorRow, cursorCol int, sel fridge.Item, selected, fits bool) string {
	text := emptyCell.Render("··")
	if cell.Occupied() {
		text = lipgloss.NewStyle().Background(lipgloss.Color(cell.Color)).Render("  ")
	}

	if selected && sel.Occupies(r-cursorRow, c-cursorCol) {
		if fits {
			return previewOK.Render("  ")
		}
		return previewBad.Render("  ")
	}
	if r == cursorRow && c == cursorCol {
		return cursorStyle.Render("[]")
	}
	return text
}
