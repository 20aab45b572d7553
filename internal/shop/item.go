package shop

import (
	"fmt"
	"strings"
)

// ItemDescriptor identifies an item kind and quantity. Player is set for
// the personalized "PLAYER:<name>" variant and is part of kind identity,
// not quantity. The zero value is "no item".
type ItemDescriptor struct {
	Kind   string
	Count  int
	Player string
}

const personalizedKind = "PLAYER"

// ParseItem parses the config/table item-string form: either "KIND" or
// "PLAYER:<name>" for a head bound to a named identity.
func ParseItem(s string, count int) (ItemDescriptor, error) {
	if count < 0 {
		return ItemDescriptor{}, fmt.Errorf("item %q: negative count %d", s, count)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ItemDescriptor{}, fmt.Errorf("empty item string")
	}
	kind, meta, hasMeta := strings.Cut(s, ":")
	if kind == personalizedKind {
		if !hasMeta || meta == "" {
			return ItemDescriptor{}, fmt.Errorf("item %q: missing player name", s)
		}
		return ItemDescriptor{Kind: personalizedKind, Count: count, Player: meta}, nil
	}
	if hasMeta {
		return ItemDescriptor{}, fmt.Errorf("item %q: unexpected metadata %q", s, meta)
	}
	return ItemDescriptor{Kind: kind, Count: count}, nil
}

// ItemString renders the descriptor back into the "KIND" / "PLAYER:<name>"
// form used by the config file and the shops table.
func (d ItemDescriptor) ItemString() string {
	if d.Player != "" {
		return d.Kind + ":" + d.Player
	}
	return d.Kind
}

// SameKind reports stock compatibility: kind and metadata match, quantity
// is deliberately ignored.
func (d ItemDescriptor) SameKind(o ItemDescriptor) bool {
	return d.Kind == o.Kind && d.Player == o.Player
}

// WithCount returns a copy carrying a different quantity.
func (d ItemDescriptor) WithCount(n int) ItemDescriptor {
	d.Count = n
	return d
}

// IsZero reports whether the descriptor holds no item at all.
func (d ItemDescriptor) IsZero() bool {
	return d.Kind == ""
}

func (d ItemDescriptor) String() string {
	return fmt.Sprintf("%dx%s", d.Count, d.ItemString())
}
