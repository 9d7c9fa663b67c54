package fridge

import "fmt"

// Shape is a polyomino footprint for a food item together with its display
// metadata. Cells is row-major; true marks an occupied cell.
type Shape struct {
	Name  string   `json:"name"`
	Cells [][]bool `json:"cells"`
	Color string   `json:"color"`
	Icon  string   `json:"icon"`
}

// Height returns the number of rows in the shape matrix
func (s Shape) Height() int {
	return len(s.Cells)
}

// Width returns the number of columns in the first row of the shape matrix
func (s Shape) Width() int {
	if len(s.Cells) == 0 {
		return 0
	}
	return len(s.Cells[0])
}

// CellCount returns how many cells the shape occupies
func (s Shape) CellCount() int {
	n := 0
	for _, row := range s.Cells {
		for _, filled := range row {
			if filled {
				n++
			}
		}
	}
	return n
}

// Occupies reports whether the shape fills the cell at (r, c) of its own matrix
func (s Shape) Occupies(r, c int) bool {
	if r < 0 || r >= len(s.Cells) || c < 0 || c >= len(s.Cells[r]) {
		return false
	}
	return s.Cells[r][c]
}

// CellMeta returns the grid cell contents written when the shape is placed
func (s Shape) CellMeta() Cell {
	return Cell{Name: s.Name, Color: s.Color, Icon: s.Icon, Filled: true}
}

// mask builds a shape matrix from rows of '1'/'0' characters.
func mask(rows ...string) [][]bool {
	cells := make([][]bool, len(rows))
	for i, row := range rows {
		cells[i] = make([]bool, len(row))
		for j, ch := range row {
			cells[i][j] = ch == '1'
		}
	}
	return cells
}

var catalog = []Shape{
	{Name: "Milk Carton", Cells: mask("11"), Color: "#A7F3D0", Icon: "🥛"},
	{Name: "Butter Block", Cells: mask("11", "11"), Color: "#FCD34D", Icon: "🧈"},
	{Name: "Pizza Box", Cells: mask("111", "111"), Color: "#FCA5A5", Icon: "🍕"},
	{Name: "Eggs", Cells: mask("1111"), Color: "#FDE68A", Icon: "🥚"},
	{Name: "Soda Can", Cells: mask("1"), Color: "#93C5FD", Icon: "🥤"},
	{Name: "Veggie Bag", Cells: mask("11", "10"), Color: "#BFDBFE", Icon: "🥬"},
	{Name: "Fruit Bowl", Cells: mask("110", "011"), Color: "#D8B4FE", Icon: "🍎"},
}

// Catalog returns the fixed set of placeable food shapes in display order.
// The returned shapes share their matrices with the catalog and must be
// treated as read-only.
func Catalog() []Shape {
	out := make([]Shape, len(catalog))
	copy(out, catalog)
	return out
}

// ShapeByName looks up a catalog entry
func ShapeByName(name string) (Shape, error) {
	for _, s := range catalog {
		if s.Name == name {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("unknown shape: %s", name)
}
