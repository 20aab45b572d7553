package memworld

import "github.com/skytopia/Shoptopia/internal/shop"

// stackLimit is the per-slot item cap.
const stackLimit = 64

type slot struct {
	stack shop.ItemDescriptor
}

// Container is a chest. Stacks keep insertion order so FirstStack is
// deterministic.
type Container struct {
	slots  int
	stacks []shop.ItemDescriptor
}

func (c *Container) Slots() int { return c.slots }

// Put appends a stack, for seeding shop chests.
func (c *Container) Put(stack shop.ItemDescriptor) {
	if stack.IsZero() || stack.Count <= 0 {
		return
	}
	c.stacks = append(c.stacks, stack)
}

func (c *Container) count(kind shop.ItemDescriptor) int {
	total := 0
	for _, s := range c.stacks {
		if s.SameKind(kind) {
			total += s.Count
		}
	}
	return total
}

func (c *Container) ContainsAtLeast(stock shop.ItemDescriptor, amount int) bool {
	return c.count(stock) >= amount
}

func (c *Container) Remove(stock shop.ItemDescriptor) {
	remaining := stock.Count
	for i := range c.stacks {
		if remaining <= 0 {
			break
		}
		if !c.stacks[i].SameKind(stock) {
			continue
		}
		take := c.stacks[i].Count
		if take > remaining {
			take = remaining
		}
		c.stacks[i].Count -= take
		remaining -= take
	}
	kept := c.stacks[:0]
	for _, s := range c.stacks {
		if s.Count > 0 {
			kept = append(kept, s)
		}
	}
	c.stacks = kept
}

func (c *Container) FirstStack() (shop.ItemDescriptor, bool) {
	for _, s := range c.stacks {
		if s.Count > 0 {
			return s, true
		}
	}
	return shop.ItemDescriptor{}, false
}

// Stacks returns a copy of the container's contents, for assertions.
func (c *Container) Stacks() []shop.ItemDescriptor {
	out := make([]shop.ItemDescriptor, len(c.stacks))
	copy(out, c.stacks)
	return out
}

// Inventory is a personal or shared item store with a fixed slot count.
type Inventory struct {
	slots []slot
}

func NewInventory(size int) *Inventory {
	return &Inventory{slots: make([]slot, size)}
}

func (inv *Inventory) ContainsAtLeast(stock shop.ItemDescriptor, amount int) bool {
	total := 0
	for _, s := range inv.slots {
		if !s.stack.IsZero() && s.stack.SameKind(stock) {
			total += s.stack.Count
		}
	}
	return total >= amount
}

func (inv *Inventory) Remove(stock shop.ItemDescriptor) {
	remaining := stock.Count
	for i := range inv.slots {
		if remaining <= 0 {
			break
		}
		s := &inv.slots[i]
		if s.stack.IsZero() || !s.stack.SameKind(stock) {
			continue
		}
		take := s.stack.Count
		if take > remaining {
			take = remaining
		}
		s.stack.Count -= take
		remaining -= take
		if s.stack.Count <= 0 {
			s.stack = shop.ItemDescriptor{}
		}
	}
}

// Add fills existing same-kind slots up to the stack limit, then empty
// slots, and returns whatever did not fit.
func (inv *Inventory) Add(stock shop.ItemDescriptor) (shop.ItemDescriptor, bool) {
	remaining := stock.Count
	for i := range inv.slots {
		if remaining <= 0 {
			break
		}
		s := &inv.slots[i]
		if s.stack.IsZero() || !s.stack.SameKind(stock) {
			continue
		}
		room := stackLimit - s.stack.Count
		if room <= 0 {
			continue
		}
		if room > remaining {
			room = remaining
		}
		s.stack.Count += room
		remaining -= room
	}
	for i := range inv.slots {
		if remaining <= 0 {
			break
		}
		s := &inv.slots[i]
		if !s.stack.IsZero() {
			continue
		}
		put := remaining
		if put > stackLimit {
			put = stackLimit
		}
		s.stack = stock.WithCount(put)
		remaining -= put
	}
	if remaining <= 0 {
		return shop.ItemDescriptor{}, false
	}
	return stock.WithCount(remaining), true
}

// Count totals items of the given kind, for assertions.
func (inv *Inventory) Count(kind shop.ItemDescriptor) int {
	total := 0
	for _, s := range inv.slots {
		if !s.stack.IsZero() && s.stack.SameKind(kind) {
			total += s.stack.Count
		}
	}
	return total
}
