// Package world provides the grid model of a Kara world: coordinates,
// directions, cells and the bounded grid they live on.
package world

import "fmt"

// Coord is a cell coordinate. X grows to the right, Y grows downwards.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// At returns the coordinate (x, y).
func At(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Move returns the neighbouring coordinate in direction d.
func (c Coord) Move(d Direction) Coord {
	return d.Apply(c)
}

// String returns the coordinate as "[x, y]".
func (c Coord) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Y)
}
