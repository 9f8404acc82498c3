package world_test

import (
	"math"
	"testing"

	"github.com/felixgeelhaar/kara-go/domain/world"
)

func TestDirection_RotationIsFourCycle(t *testing.T) {
	t.Parallel()

	for _, d := range world.AllDirections() {
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()

			if got := d.RotateRight().RotateLeft(); got != d {
				t.Errorf("RotateLeft(RotateRight(%s)) = %s", d, got)
			}
			if got := d.RotateLeft().RotateRight(); got != d {
				t.Errorf("RotateRight(RotateLeft(%s)) = %s", d, got)
			}

			left, right := d, d
			for i := 0; i < 4; i++ {
				left = left.RotateLeft()
				right = right.RotateRight()
			}
			if left != d {
				t.Errorf("four left turns from %s = %s", d, left)
			}
			if right != d {
				t.Errorf("four right turns from %s = %s", d, right)
			}
		})
	}
}

func TestDirection_RotateLeftOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from world.Direction
		want world.Direction
	}{
		{world.Right, world.Up},
		{world.Up, world.Left},
		{world.Left, world.Down},
		{world.Down, world.Right},
	}

	for _, tt := range tests {
		if got := tt.from.RotateLeft(); got != tt.want {
			t.Errorf("%s.RotateLeft() = %s, want %s", tt.from, got, tt.want)
		}
		if got := tt.want.RotateRight(); got != tt.from {
			t.Errorf("%s.RotateRight() = %s, want %s", tt.want, got, tt.from)
		}
	}
}

func TestDirection_Vector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir   world.Direction
		want  world.Coord
		angle float64
	}{
		{world.Up, world.At(0, -1), 0},
		{world.Down, world.At(0, 1), math.Pi},
		{world.Left, world.At(-1, 0), -math.Pi / 2},
		{world.Right, world.At(1, 0), math.Pi / 2},
	}

	for _, tt := range tests {
		if got := tt.dir.Vector(); got != tt.want {
			t.Errorf("%s.Vector() = %v, want %v", tt.dir, got, tt.want)
		}
		if got := tt.dir.Angle(); got != tt.angle {
			t.Errorf("%s.Angle() = %v, want %v", tt.dir, got, tt.angle)
		}
		if got := tt.dir.Apply(world.At(3, 3)); got != world.At(3, 3).Add(tt.want) {
			t.Errorf("%s.Apply([3, 3]) = %v", tt.dir, got)
		}
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    world.Direction
		wantErr bool
	}{
		{"<", world.Left, false},
		{"^", world.Up, false},
		{">", world.Right, false},
		{"v", world.Down, false},
		{"V", world.Down, false},
		{"right", world.Right, false},
		{" Up ", world.Up, false},
		{"north", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := world.ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDirection(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirection_Invalid(t *testing.T) {
	t.Parallel()

	d := world.Direction(9)
	if d.IsValid() {
		t.Error("Direction(9) should be invalid")
	}
	if d.Vector() != (world.Coord{}) {
		t.Errorf("invalid Vector() = %v, want zero", d.Vector())
	}
	if d.String() != "direction(9)" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestCoord(t *testing.T) {
	t.Parallel()

	c := world.At(2, 5)
	if got := c.Add(world.At(-1, 3)); got != world.At(1, 8) {
		t.Errorf("Add = %v, want [1, 8]", got)
	}
	if got := c.Move(world.Up); got != world.At(2, 4) {
		t.Errorf("Move(Up) = %v, want [2, 4]", got)
	}
	if got := c.String(); got != "[2, 5]" {
		t.Errorf("String() = %q, want [2, 5]", got)
	}
}
