// Package render draws game frames as text.
package render

import (
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/felixgeelhaar/kara-go/application"
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// Style selects the glyph set of a text frame.
type Style int

const (
	// StyleASCII uses spec symbols, so a frame reads back as a world spec.
	StyleASCII Style = iota
	// StyleEmoji uses the display glyphs.
	StyleEmoji
)

// ParseStyle maps "ascii" and "emoji" to a Style. Anything else is ASCII.
func ParseStyle(s string) Style {
	if strings.EqualFold(s, "emoji") {
		return StyleEmoji
	}
	return StyleASCII
}

var asciiAgent = map[world.Direction]string{
	world.Up:    "^",
	world.Left:  "<",
	world.Down:  "v",
	world.Right: ">",
}

// TextCanvas collects draw calls into a grid of glyphs. It implements
// application.Canvas; the cell size is ignored.
type TextCanvas struct {
	style Style
	rows  [][]string
}

var _ application.Canvas = (*TextCanvas)(nil)

// NewTextCanvas creates a canvas of width×height cells.
func NewTextCanvas(width, height int, style Style) *TextCanvas {
	rows := make([][]string, height)
	for y := range rows {
		rows[y] = make([]string, width)
	}
	return &TextCanvas{style: style, rows: rows}
}

func (c *TextCanvas) put(at world.Coord, glyph string) {
	if at.Y < 0 || at.Y >= len(c.rows) || at.X < 0 || at.X >= len(c.rows[at.Y]) {
		return
	}
	c.rows[at.Y][at.X] = glyph
}

// DrawCell draws one cell.
func (c *TextCanvas) DrawCell(at world.Coord, cell world.Cell, _ int) {
	if c.style == StyleEmoji {
		c.put(at, cell.Display())
		return
	}
	c.put(at, cell.Symbol())
}

// DrawAgent draws Kara facing the given direction.
func (c *TextCanvas) DrawAgent(at world.Coord, facing world.Direction, _ int) {
	if c.style == StyleEmoji {
		c.put(at, facing.Glyph())
		return
	}
	c.put(at, asciiAgent[facing])
}

// String joins the rows. In emoji style every cell is padded to the
// widest glyph so columns line up in a terminal.
func (c *TextCanvas) String() string {
	width := 1
	if c.style == StyleEmoji {
		for _, row := range c.rows {
			for _, g := range row {
				if w := uniseg.StringWidth(g); w > width {
					width = w
				}
			}
		}
	}

	var b strings.Builder
	for y, row := range c.rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, g := range row {
			if g == "" {
				g = " "
			}
			b.WriteString(g)
			if pad := width - uniseg.StringWidth(g); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	return b.String()
}

// WriteTo writes the frame followed by a newline.
func (c *TextCanvas) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String()+"\n")
	return int64(n), err
}

// Frame draws the game's live world in the given style.
func Frame(g *application.Game, style Style) string {
	snap := g.Snapshot()
	canvas := NewTextCanvas(snap.Grid.Width(), snap.Grid.Height(), style)
	g.Draw(canvas, 1)
	return canvas.String()
}
