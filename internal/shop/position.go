package shop

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is an exact block location. Equality compares all four fields,
// so positions are usable directly as map keys (clickspace, containers).
type Position struct {
	World   string
	X, Y, Z int
}

// Below returns the position directly underneath. Every showcase registers
// both its own position and this one in the clickspace, so clicking the
// backing block activates the showcase too.
func (p Position) Below() Position {
	p.Y--
	return p
}

// Above is the inverse of Below.
func (p Position) Above() Position {
	p.Y++
	return p
}

// XYZ renders the coordinates as the comma-joined "x,y,z" form stored in
// the shops table.
func (p Position) XYZ() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", p.World, p.X, p.Y, p.Z)
}

// ParseXYZ parses the "x,y,z" column form back into coordinates.
func ParseXYZ(s string) (x, y, z int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("xyz %q: want 3 comma-joined integers", s)
	}
	out := [3]int{}
	for i, part := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(part))
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("xyz %q: %w", s, convErr)
		}
		out[i] = n
	}
	return out[0], out[1], out[2], nil
}

// MatchXZ reports whether two positions share the same world column,
// ignoring height. Reconciliation uses it to spot markers that drifted
// vertically off their showcase.
func MatchXZ(a, b Position) bool {
	return a.World == b.World && a.X == b.X && a.Z == b.Z
}
