// Package memworld provides in-memory implementations of the engine's
// world, economy and group collaborators. The server binary runs on them
// until a real game-world bridge exists, and the test suites drive the
// engine through them.
package memworld

import (
	"sync"

	"github.com/skytopia/Shoptopia/internal/shop"
)

const regionSize = 16

type regionKey struct {
	World string
	RX    int
	RZ    int
}

// World tracks blocks, containers and dropped items per position.
// It is safe for use from a single goroutine, matching the engine's
// threading model.
type World struct {
	mu sync.Mutex

	blocks     map[shop.Position]string
	containers map[shop.Position]*Container
	items      []*Item
	unloaded   map[regionKey]bool
}

func NewWorld() *World {
	return &World{
		blocks:     make(map[shop.Position]string),
		containers: make(map[shop.Position]*Container),
		unloaded:   make(map[regionKey]bool),
	}
}

func keyFor(p shop.Position) regionKey {
	rx, rz := p.X, p.Z
	if rx < 0 {
		rx -= regionSize - 1
	}
	if rz < 0 {
		rz -= regionSize - 1
	}
	return regionKey{World: p.World, RX: rx / regionSize, RZ: rz / regionSize}
}

// SetRegionLoaded marks the region containing p loaded or unloaded.
func (w *World) SetRegionLoaded(p shop.Position, loaded bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if loaded {
		delete(w.unloaded, keyFor(p))
	} else {
		w.unloaded[keyFor(p)] = true
	}
}

func (w *World) RegionLoaded(p shop.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.unloaded[keyFor(p)]
}

func (w *World) SpawnMarker(p shop.Position, spec shop.MarkerSpec) shop.WorldItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	it := &Item{world: w, pos: p, stack: spec.Icon, pickupDelay: spec.PickupDelay, valid: true}
	w.items = append(w.items, it)
	return it
}

// DropItem simulates an ambient drop at p, such as a player tossing an
// item onto a showcase.
func (w *World) DropItem(p shop.Position, stack shop.ItemDescriptor) *Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	it := &Item{world: w, pos: p, stack: stack, valid: true}
	w.items = append(w.items, it)
	return it
}

func (w *World) Items(world string) []shop.WorldItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]shop.WorldItem, 0, len(w.items))
	for _, it := range w.items {
		if it.valid && it.pos.World == world {
			out = append(out, it)
		}
	}
	return out
}

func (w *World) ContainerAt(p shop.Position) (shop.Container, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.containers[p]
	if !ok {
		return nil, false
	}
	return c, true
}

// PlaceContainer creates a chest with the given slot count at p.
func (w *World) PlaceContainer(p shop.Position, slots int) *Container {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := &Container{slots: slots}
	w.containers[p] = c
	w.blocks[p] = "CHEST"
	return c
}

func (w *World) AirAt(p shop.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, occupied := w.blocks[p]
	return !occupied
}

func (w *World) PlaceSlab(p shop.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blocks[p] = "SLAB"
}

// PlaceBlock puts an arbitrary block at p, for obstruction scenarios.
func (w *World) PlaceBlock(p shop.Position, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blocks[p] = name
}

func (w *World) ClearBlock(p shop.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.blocks, p)
}

// BlockAt reports the block name at p, for assertions.
func (w *World) BlockAt(p shop.Position) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	name, ok := w.blocks[p]
	return name, ok
}

func (w *World) discard(target *Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, it := range w.items {
		if it == target {
			w.items = append(w.items[:i], w.items[i+1:]...)
			break
		}
	}
}

// Item is a dropped item entity.
type Item struct {
	world       *World
	pos         shop.Position
	stack       shop.ItemDescriptor
	pickupDelay int
	valid       bool
}

func (it *Item) Valid() bool                { return it.valid }
func (it *Item) Position() shop.Position    { return it.pos }
func (it *Item) Stack() shop.ItemDescriptor { return it.stack }

func (it *Item) Discard() {
	if !it.valid {
		return
	}
	it.valid = false
	it.world.discard(it)
}
