package world

import "fmt"

// Grid is a fixed-size rectangular world.
// Cells are stored row-major.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid creates a width×height grid of empty cells.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Contains returns true if c lies inside the grid.
func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Grid) index(c Coord) (int, error) {
	if !g.Contains(c) {
		return 0, fmt.Errorf("%w: %s in %dx%d grid", ErrOutOfBounds, c, g.width, g.height)
	}
	return c.Y*g.width + c.X, nil
}

// At returns the cell at c.
func (g *Grid) At(c Coord) (Cell, error) {
	i, err := g.index(c)
	if err != nil {
		return Cell{}, err
	}
	return g.cells[i], nil
}

// Set replaces the cell at c.
func (g *Grid) Set(c Coord, cell Cell) error {
	i, err := g.index(c)
	if err != nil {
		return err
	}
	g.cells[i] = cell
	return nil
}

// Clear sets the cell at c to Empty.
func (g *Grid) Clear(c Coord) error {
	return g.Set(c, Empty)
}

// Each calls fn for every cell, top to bottom and left to right.
// Iteration stops when fn returns false.
func (g *Grid) Each(fn func(c Coord, cell Cell) bool) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !fn(Coord{X: x, Y: y}, g.cells[y*g.width+x]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal returns true if both grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].Same(o.cells[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of cells of kind k.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, cell := range g.cells {
		if cell.Is(k) {
			n++
		}
	}
	return n
}
