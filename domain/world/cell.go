package world

// Kind is the semantic type of a cell.
type Kind uint8

const (
	KindEmpty  Kind = iota // Nothing
	KindTree               // Impassable
	KindMarker             // Clover leaf, placed and removed by Kara
	KindGoal               // Mushroom
	KindBug                // Kara herself, only used for display
	KindCustom             // Any other glyph, kept verbatim
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTree:
		return "tree"
	case KindMarker:
		return "marker"
	case KindGoal:
		return "goal"
	case KindBug:
		return "bug"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Cell is an immutable grid cell value.
type Cell struct {
	kind    Kind
	display string
	symbol  string
}

// The known cells. Cells of the same kind compare equal.
var (
	Empty  = Cell{kind: KindEmpty, display: " ", symbol: "_"}
	Tree   = Cell{kind: KindTree, display: "🌳", symbol: "T"}
	Marker = Cell{kind: KindMarker, display: "🍀", symbol: "C"}
	Goal   = Cell{kind: KindGoal, display: "🍄", symbol: "M"}
	Bug    = Cell{kind: KindBug, display: "🐞", symbol: "B"}
)

// CustomCell returns a cell that displays and serialises as glyph.
func CustomCell(glyph string) Cell {
	return Cell{kind: KindCustom, display: glyph, symbol: glyph}
}

// CellFromSymbol decodes a single spec symbol. Unknown symbols become custom cells.
func CellFromSymbol(s string) Cell {
	switch s {
	case " ", "_":
		return Empty
	case "T", "🌳":
		return Tree
	case "C", "🍀":
		return Marker
	case "M", "🍄":
		return Goal
	case "B", "🐞":
		return Bug
	default:
		return CustomCell(s)
	}
}

// Kind returns the semantic type.
func (c Cell) Kind() Kind {
	return c.kind
}

// Is returns true if c has kind k.
func (c Cell) Is(k Kind) bool {
	return c.kind == k
}

// Display returns the glyph used when drawing the cell.
func (c Cell) Display() string {
	if c.display == "" {
		return Empty.display
	}
	return c.display
}

// Symbol returns the canonical spec symbol.
func (c Cell) Symbol() string {
	if c.symbol == "" {
		return Empty.symbol
	}
	return c.symbol
}

// Same compares by kind, and by glyph for custom cells.
func (c Cell) Same(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	return c.kind != KindCustom || c.symbol == o.symbol
}

// String returns the canonical spec symbol.
func (c Cell) String() string {
	return c.Symbol()
}
