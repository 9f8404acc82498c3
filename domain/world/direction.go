package world

import (
	"fmt"
	"math"
	"strings"
)

// Direction is one of the four grid orientations.
type Direction uint8

// The declaration order is the left-rotation order.
const (
	Up Direction = iota
	Left
	Down
	Right
)

const directionCount = 4

type directionInfo struct {
	name   string
	glyph  string
	vector Coord
	angle  float64
}

// directions is never written after initialisation.
var directions = [directionCount]directionInfo{
	Up:    {name: "up", glyph: "↑", vector: Coord{X: 0, Y: -1}, angle: 0},
	Left:  {name: "left", glyph: "←", vector: Coord{X: -1, Y: 0}, angle: -math.Pi / 2},
	Down:  {name: "down", glyph: "↓", vector: Coord{X: 0, Y: 1}, angle: math.Pi},
	Right: {name: "right", glyph: "→", vector: Coord{X: 1, Y: 0}, angle: math.Pi / 2},
}

// AllDirections returns the four directions in left-rotation order.
func AllDirections() []Direction {
	return []Direction{Up, Left, Down, Right}
}

// IsValid returns true if d is one of the four directions.
func (d Direction) IsValid() bool {
	return d < directionCount
}

// Vector returns the unit displacement of d.
func (d Direction) Vector() Coord {
	if !d.IsValid() {
		return Coord{}
	}
	return directions[d].vector
}

// Angle returns the presentation rotation in radians, clockwise from Up.
func (d Direction) Angle() float64 {
	if !d.IsValid() {
		return 0
	}
	return directions[d].angle
}

// Glyph returns an arrow for d.
func (d Direction) Glyph() string {
	if !d.IsValid() {
		return "?"
	}
	return directions[d].glyph
}

// Apply returns c moved one step in direction d.
func (d Direction) Apply(c Coord) Coord {
	return c.Add(d.Vector())
}

// RotateLeft returns the direction a quarter turn counter-clockwise.
func (d Direction) RotateLeft() Direction {
	return (d + 1) % directionCount
}

// RotateRight returns the direction a quarter turn clockwise.
func (d Direction) RotateRight() Direction {
	return (d + directionCount - 1) % directionCount
}

// String returns the direction name.
func (d Direction) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directions[d].name
}

// ParseDirection parses a direction name or a start glyph (<, ^, >, v, V).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "^", "↑":
		return Up, nil
	case "left", "<", "←":
		return Left, nil
	case "down", "v", "↓":
		return Down, nil
	case "right", ">", "→":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
