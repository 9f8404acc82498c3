package application

import (
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// Canvas receives draw calls. Cells are drawn first, then Kara on top.
type Canvas interface {
	DrawCell(c world.Coord, cell world.Cell, size int)
	DrawAgent(c world.Coord, facing world.Direction, size int)
}

// Draw renders the live world onto canvas under the read lock.
func (g *Game) Draw(canvas Canvas, cellSize int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.grid.Each(func(c world.Coord, cell world.Cell) bool {
		canvas.DrawCell(c, cell, cellSize)
		return true
	})
	canvas.DrawAgent(g.kara.Position(), g.kara.Facing(), cellSize)
}
