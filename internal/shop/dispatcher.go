package shop

import "log"

// ClickKind distinguishes the two interaction buttons.
type ClickKind string

const (
	ClickPrimary   ClickKind = "PRIMARY"
	ClickSecondary ClickKind = "SECONDARY"
)

// InteractEvent is a raw world click at a block position. Modifier is the
// held preview modifier (sneak).
type InteractEvent struct {
	Pos      Position
	Click    ClickKind
	Modifier bool
}

// Dispatcher turns raw world events into showcase transactions for one
// showcase family. Both families share this logic; the only difference is
// which registry view they observe, injected as a capability.
type Dispatcher struct {
	log    *log.Logger
	world  WorldAccess
	ledger Ledger
	groups GroupService
	trades TradeRecorder

	// view is the registry collection this dispatcher reconciles.
	view func() []*Showcase

	// worldID bounds the destructive-edit veto to the owner world.
	worldID string

	clickspace map[Position]*Showcase
	exemptSet  map[WorldItem]struct{}
}

type DispatcherConfig struct {
	WorldID string
	World   WorldAccess
	Ledger  Ledger
	Groups  GroupService
	Trades  TradeRecorder
	View    func() []*Showcase
	Log     *log.Logger
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Log
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		log:        logger,
		world:      cfg.World,
		ledger:     cfg.Ledger,
		groups:     cfg.Groups,
		trades:     cfg.Trades,
		view:       cfg.View,
		worldID:    cfg.WorldID,
		clickspace: map[Position]*Showcase{},
		exemptSet:  map[WorldItem]struct{}{},
	}
}

// putClickspace registers a showcase's two clickable positions: its own
// and the one directly below.
func (d *Dispatcher) putClickspace(sc *Showcase) {
	d.clickspace[sc.Position()] = sc
	d.clickspace[sc.Position().Below()] = sc
}

// RemoveClickspace drops every clickspace entry resolving to a showcase at
// the same position, matched by value.
func (d *Dispatcher) RemoveClickspace(sc *Showcase) {
	var stale []Position
	for p, at := range d.clickspace {
		if at.Position() == sc.Position() {
			stale = append(stale, p)
		}
	}
	for _, p := range stale {
		delete(d.clickspace, p)
	}
}

// ClearClickspace empties the table; used by full registry teardown.
func (d *Dispatcher) ClearClickspace() {
	d.clickspace = map[Position]*Showcase{}
}

// ShowcaseAt resolves the clickspace at a position.
func (d *Dispatcher) ShowcaseAt(p Position) *Showcase {
	return d.clickspace[p]
}

func (d *Dispatcher) exempt(item WorldItem) {
	if item != nil {
		d.exemptSet[item] = struct{}{}
	}
}

func (d *Dispatcher) unexempt(item WorldItem) {
	delete(d.exemptSet, item)
}

// Exempt reports whether the item is a protected showcase marker.
func (d *Dispatcher) Exempt(item WorldItem) bool {
	_, ok := d.exemptSet[item]
	return ok
}

// HandleDespawn vetoes ambient despawn of protected markers. Returns true
// when the despawn must be cancelled.
func (d *Dispatcher) HandleDespawn(item WorldItem) bool {
	return d.Exempt(item)
}

// HandleBlockBreak vetoes destructive edits at clickspace positions within
// the owner world. Returns true when the break must be cancelled.
func (d *Dispatcher) HandleBlockBreak(p Position) bool {
	if p.World != d.worldID {
		return false
	}
	_, ok := d.clickspace[p]
	return ok
}

// HandleInteract routes a world click. handled=false means the event is
// not ours (no showcase here, or the actor owns the showcase) and the
// underlying world action should proceed; handled=true means it was
// consumed and must be cancelled.
func (d *Dispatcher) HandleInteract(ev InteractEvent, actor Actor) (fb Feedback, handled bool) {
	sc := d.clickspace[ev.Pos]
	if sc == nil {
		return Feedback{}, false
	}
	if id, owned := sc.Owner().GroupID(); owned && d.groups.IsMember(id, actor.ID()) {
		// No self-trading: members use their own shop's chest directly.
		return Feedback{}, false
	}

	switch ev.Click {
	case ClickPrimary:
		if ev.Modifier {
			return d.PreviewBuy(sc), true
		}
		return d.TryBuy(sc, actor), true
	case ClickSecondary:
		if ev.Modifier {
			return d.PreviewSell(sc), true
		}
		return d.TrySell(sc, actor), true
	}
	return Feedback{}, false
}

// Reconcile is the periodic self-healing pass. It discards stray items
// sitting on a showcase column that are not the showcase's own marker,
// then respawns any showcase whose marker went invalid. It never mutates
// registry membership, only marker state.
func (d *Dispatcher) Reconcile() {
	showcases := d.view()

	for _, item := range d.world.Items(d.worldID) {
		for _, sc := range showcases {
			if sc == nil || sc.State() != StateActive {
				continue
			}
			if !MatchXZ(sc.Position(), item.Position()) {
				continue
			}
			if item == sc.Marker() {
				continue
			}
			item.Discard()
			sc.Respawn()
			d.record(TradeEntry{
				Time:  entryTime(),
				Type:  TradeStray,
				Owner: sc.Owner().String(),
				World: sc.Position().World,
				X:     sc.Position().X,
				Y:     sc.Position().Y,
				Z:     sc.Position().Z,
				OK:    true,
			})
		}
	}

	for _, sc := range showcases {
		if sc == nil || sc.State() != StateActive {
			continue
		}
		if m := sc.Marker(); m != nil && m.Valid() {
			continue
		}
		sc.Respawn()
		if m := sc.Marker(); m == nil || !m.Valid() {
			// Region still unloaded; try again next pass.
			continue
		}
		d.record(TradeEntry{
			Time:  entryTime(),
			Type:  TradeRespawn,
			Owner: sc.Owner().String(),
			World: sc.Position().World,
			X:     sc.Position().X,
			Y:     sc.Position().Y,
			Z:     sc.Position().Z,
			OK:    true,
		})
	}
}

func (d *Dispatcher) record(e TradeEntry) {
	if d.trades != nil {
		d.trades.RecordTrade(e)
	}
}
