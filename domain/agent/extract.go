package agent

import (
	"fmt"

	"github.com/felixgeelhaar/kara-go/domain/world"
)

// startFacing maps start glyphs to Kara's initial orientation.
var startFacing = map[string]world.Direction{
	"<": world.Left,
	"^": world.Up,
	">": world.Right,
	"v": world.Down,
	"V": world.Down,
}

// IsStartGlyph returns true if cell is one of the start glyphs < ^ > v V.
func IsStartGlyph(cell world.Cell) bool {
	if !cell.Is(world.KindCustom) {
		return false
	}
	_, ok := startFacing[cell.Symbol()]
	return ok
}

// Extract finds Kara's start on grid. The grid is scanned row by row; the
// first start glyph wins and every start glyph is cleared to empty. Without
// a start glyph Kara is placed on the first empty cell facing right.
func Extract(grid *world.Grid) (*Kara, error) {
	var (
		found      bool
		start      Pose
		firstEmpty *world.Coord
		starts     []world.Coord
	)

	grid.Each(func(c world.Coord, cell world.Cell) bool {
		if cell.Is(world.KindEmpty) && firstEmpty == nil {
			pos := c
			firstEmpty = &pos
		}
		if IsStartGlyph(cell) {
			if !found {
				found = true
				start = Pose{Position: c, Facing: startFacing[cell.Symbol()]}
			}
			starts = append(starts, c)
		}
		return true
	})

	for _, c := range starts {
		if err := grid.Clear(c); err != nil {
			return nil, err
		}
	}

	switch {
	case found:
		return New(grid, start.Position, start.Facing)
	case firstEmpty != nil:
		return New(grid, *firstEmpty, world.Right)
	default:
		return nil, fmt.Errorf("%w: %dx%d grid has no start glyph or empty cell",
			ErrNoStartPosition, grid.Width(), grid.Height())
	}
}
