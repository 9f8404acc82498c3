package world

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// EmptyWorldSpec is a 9×9 world walled in by trees.
const EmptyWorldSpec = `TTTTTTTTT
T       T
T       T
T       T
T       T
T       T
T       T
T       T
TTTTTTTTT`

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseSpec decodes a multi-line world spec. Each line is trimmed, so rows
// that start or end with an empty cell must use '_'.
func ParseSpec(spec string) (*Grid, error) {
	lines := lineBreak.Split(spec, -1)
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return Decode(lines)
}

// Decode builds a grid from rows, top to bottom. Lines are not trimmed and
// are split into grapheme clusters, so emoji count as one cell each. Every
// line must have as many cells as the first.
func Decode(lines []string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrMalformedSpec)
	}

	rows := make([][]string, len(lines))
	for y, line := range lines {
		rows[y] = graphemes(line)
	}

	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: line 0 is empty", ErrMalformedSpec)
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: line %d has length %d, expected %d",
				ErrMalformedSpec, y, len(row), width)
		}
	}

	grid, err := NewGrid(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		for x, symbol := range row {
			grid.cells[y*width+x] = CellFromSymbol(symbol)
		}
	}
	return grid, nil
}

// Encode serialises the grid using one canonical symbol per cell.
func (g *Grid) Encode() []string {
	lines := make([]string, g.height)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			b.WriteString(g.cells[y*g.width+x].Symbol())
		}
		lines[y] = b.String()
	}
	return lines
}

// String returns the encoded grid, one row per line.
func (g *Grid) String() string {
	return strings.Join(g.Encode(), "\n")
}

func graphemes(s string) []string {
	out := make([]string, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}
