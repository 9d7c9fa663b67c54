package fridge

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Cell is a single fridge slot. The zero value is an empty slot.
type Cell struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Filled bool   `json:"-"`
}

// Occupied reports whether an item fills the cell
func (c Cell) Occupied() bool {
	return c.Filled
}

// Grid is an immutable-by-convention snapshot of the fridge. Mutations go
// through Place, which returns a new Grid and leaves the receiver untouched.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid creates an empty rows x cols grid. Negative dimensions are treated as zero.
func NewGrid(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// Rows returns the grid height
func (g Grid) Rows() int { return g.rows }

// Cols returns the grid width
func (g Grid) Cols() int { return g.cols }

// At returns the cell at (r, c). Out-of-range coordinates yield an empty cell.
func (g Grid) At(r, c int) Cell {
	if !g.inBounds(r, c) {
		return Cell{}
	}
	return g.cells[r*g.cols+c]
}

// Occupied counts the filled cells
func (g Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c.Filled {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

func (g Grid) inBounds(r, c int) bool {
	return r >= 0 && c >= 0 && r < g.rows && c < g.cols
}

// CanPlace reports whether shape s fits with its top-left corner anchored at
// (row, col): every occupied shape cell must land inside the grid on an empty
// cell. It never mutates g.
func CanPlace(g Grid, s Shape, row, col int) bool {
	if row < 0 || col < 0 {
		return false
	}
	if row+s.Height() > g.rows || col+s.Width() > g.cols {
		return false
	}
	for r := 0; r < s.Height(); r++ {
		for c := 0; c < len(s.Cells[r]); c++ {
			if !s.Cells[r][c] {
				continue
			}
			if !g.inBounds(row+r, col+c) || g.At(row+r, col+c).Filled {
				return false
			}
		}
	}
	return true
}

// Place writes meta into every occupied shape cell and returns the resulting
// grid along with the number of cells written. The caller must have checked
// CanPlace for the same arguments; g itself is never modified.
func Place(g Grid, s Shape, row, col int, meta Cell) (Grid, int) {
	meta.Filled = true
	next := g.Clone()
	written := 0
	for r := 0; r < s.Height(); r++ {
		for c := 0; c < len(s.Cells[r]); c++ {
			if !s.Cells[r][c] {
				continue
			}
			next.cells[(row+r)*next.cols+(col+c)] = meta
			written++
		}
	}
	return next, written
}

// Utilization returns the filled share of the grid as a percentage rounded
// to one decimal place.
func Utilization(g Grid) float64 {
	total := g.rows * g.cols
	if total == 0 {
		return 0
	}
	pct := float64(g.Occupied()) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// FormatUtilization renders a utilization percentage with one decimal
func FormatUtilization(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// MarshalJSON encodes the grid as rows of cells with null for empty slots.
func (g Grid) MarshalJSON() ([]byte, error) {
	out := make([][]*Cell, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]*Cell, g.cols)
		for c := 0; c < g.cols; c++ {
			cell := g.At(r, c)
			if cell.Filled {
				out[r][c] = &cell
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	next := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return fmt.Errorf("grid row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, cell := range row {
			if cell != nil {
				cell.Filled = true
				next.cells[r*cols+c] = *cell
			}
		}
	}
	*g = next
	return nil
}
