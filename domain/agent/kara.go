package agent

import (
	"fmt"

	"github.com/felixgeelhaar/kara-go/domain/world"
)

// Pose is Kara's position and orientation.
type Pose struct {
	Position world.Coord     `json:"position"`
	Facing   world.Direction `json:"facing"`
}

// String returns the pose as "[x, y] facing".
func (p Pose) String() string {
	return fmt.Sprintf("%s %s", p.Position, p.Facing)
}

// Kara is the lady beetle. She senses and mutates exactly one grid.
type Kara struct {
	grid *world.Grid
	pos  world.Coord
	dir  world.Direction
}

// New places Kara on grid at pos facing dir. The position must be on
// the grid and must not be a tree.
func New(grid *world.Grid, pos world.Coord, dir world.Direction) (*Kara, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidPosition)
	}
	if !dir.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, dir)
	}
	if !standable(grid, pos) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	return &Kara{grid: grid, pos: pos, dir: dir}, nil
}

// CloneOnto returns a Kara with the same pose bound to grid.
func (k *Kara) CloneOnto(grid *world.Grid) *Kara {
	return &Kara{grid: grid, pos: k.pos, dir: k.dir}
}

// Grid returns the grid Kara lives on.
func (k *Kara) Grid() *world.Grid { return k.grid }

// Position returns Kara's coordinate.
func (k *Kara) Position() world.Coord { return k.pos }

// Facing returns Kara's orientation.
func (k *Kara) Facing() world.Direction { return k.dir }

// Pose returns position and orientation.
func (k *Kara) Pose() Pose {
	return Pose{Position: k.pos, Facing: k.dir}
}

// cellIs reports whether the cell at c has kind kind. Off-grid is never anything.
func (k *Kara) cellIs(c world.Coord, kind world.Kind) bool {
	cell, err := k.grid.At(c)
	if err != nil {
		return false
	}
	return cell.Is(kind)
}

// IsTreeAhead returns true if the cell in front is a tree.
func (k *Kara) IsTreeAhead() bool {
	return k.cellIs(k.dir.Apply(k.pos), world.KindTree)
}

// IsTreeLeft returns true if the cell to the left is a tree.
func (k *Kara) IsTreeLeft() bool {
	return k.cellIs(k.dir.RotateLeft().Apply(k.pos), world.KindTree)
}

// IsTreeRight returns true if the cell to the right is a tree.
func (k *Kara) IsTreeRight() bool {
	return k.cellIs(k.dir.RotateRight().Apply(k.pos), world.KindTree)
}

// IsGoalAhead returns true if the cell in front is a mushroom.
func (k *Kara) IsGoalAhead() bool {
	return k.cellIs(k.dir.Apply(k.pos), world.KindGoal)
}

// IsOnMarker returns true if Kara stands on a clover.
func (k *Kara) IsOnMarker() bool {
	return k.cellIs(k.pos, world.KindMarker)
}

// Move steps forward. It fails with ErrInvalidMove if the cell in front
// is a tree or off the grid, leaving Kara where she was.
func (k *Kara) Move() error {
	dest := k.dir.Apply(k.pos)
	if !standable(k.grid, dest) {
		return fmt.Errorf("%w: unable to move from %s in direction %s", ErrInvalidMove, k.pos, k.dir)
	}
	k.pos = dest
	return nil
}

// TurnLeft rotates a quarter turn counter-clockwise.
func (k *Kara) TurnLeft() error {
	k.dir = k.dir.RotateLeft()
	return nil
}

// TurnRight rotates a quarter turn clockwise.
func (k *Kara) TurnRight() error {
	k.dir = k.dir.RotateRight()
	return nil
}

// PlaceMarker puts a clover on the current cell, replacing whatever was there.
func (k *Kara) PlaceMarker() error {
	return k.grid.Set(k.pos, world.Marker)
}

// RemoveMarker picks up a clover. It does nothing if there is none.
func (k *Kara) RemoveMarker() error {
	if !k.IsOnMarker() {
		return nil
	}
	return k.grid.Clear(k.pos)
}

func standable(grid *world.Grid, c world.Coord) bool {
	cell, err := grid.At(c)
	if err != nil {
		return false
	}
	return !cell.Is(world.KindTree)
}
