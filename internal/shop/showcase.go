package shop

// State is a showcase's lifecycle phase. Destruction is terminal: a
// destroyed showcase holds no references and must never be reused.
type State string

const (
	StateActive    State = "ACTIVE"
	StateDestroyed State = "DESTROYED"
)

// Showcase is the unit of sale: a fixed position offering an optional buy
// side and an optional sell side for one item kind, represented physically
// by a marker item dropped on its slab.
type Showcase struct {
	pos        Position
	icon       ItemDescriptor
	buy        *Offer
	sell       *Offer
	restricted bool
	owner      Owner

	disp   *Dispatcher
	marker WorldItem
	state  State
}

// newShowcase stores the fields, registers both clickspace positions with
// the family dispatcher, then attempts the first marker spawn. The
// showcase is visible to interaction dispatch even before a marker
// physically exists; reconciliation finishes the job if the region is not
// loaded yet.
func newShowcase(d *Dispatcher, pos Position, icon ItemDescriptor, buy, sell *Offer, restricted bool, owner Owner) *Showcase {
	sc := &Showcase{
		pos:        pos,
		icon:       icon,
		buy:        buy,
		sell:       sell,
		restricted: restricted,
		owner:      owner,
		disp:       d,
		state:      StateActive,
	}
	d.putClickspace(sc)
	sc.Respawn()
	return sc
}

// Respawn is the idempotent marker-repair operation. It is a no-op while a
// valid marker exists, defers while the region is unloaded, and otherwise
// discards any stale marker and drops a fresh one.
func (s *Showcase) Respawn() {
	if s.state != StateActive {
		return
	}
	if s.marker != nil && s.marker.Valid() {
		return
	}
	if !s.disp.world.RegionLoaded(s.pos) {
		return
	}
	if s.marker != nil {
		s.disp.unexempt(s.marker)
		s.marker.Discard()
	}
	s.marker = s.disp.world.SpawnMarker(s.pos, MarkerSpec{
		Icon:        s.icon,
		VelocityY:   -1,
		PickupDelay: MarkerPickupDelay,
	})
	s.disp.exempt(s.marker)
}

// Destroy removes the marker and clears every internal reference so the
// instance cannot be reanimated. Irreversible.
func (s *Showcase) Destroy() {
	if s.state == StateDestroyed {
		return
	}
	if s.marker != nil {
		s.disp.unexempt(s.marker)
		s.marker.Discard()
		s.marker = nil
	}
	s.icon = ItemDescriptor{}
	s.buy = nil
	s.sell = nil
	s.disp = nil
	s.state = StateDestroyed
}

func (s *Showcase) IsAdminShop() bool { return s.owner.IsAdmin() }

func (s *Showcase) CanBuy() bool { return s.buy != nil }

func (s *Showcase) CanSell() bool { return s.sell != nil }

func (s *Showcase) Position() Position { return s.pos }

func (s *Showcase) Icon() ItemDescriptor { return s.icon }

func (s *Showcase) BuyOffer() *Offer { return s.buy }

func (s *Showcase) SellOffer() *Offer { return s.sell }

func (s *Showcase) Restricted() bool { return s.restricted }

func (s *Showcase) Owner() Owner { return s.owner }

func (s *Showcase) Marker() WorldItem { return s.marker }

func (s *Showcase) State() State { return s.state }
