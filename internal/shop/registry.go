package shop

import (
	"errors"
	"log"
)

// OwnerSlots is the per-group showcase capacity.
const OwnerSlots = 12

// ErrCapacity is returned by AddOwnerShowcase when every slot is taken.
var ErrCapacity = errors.New("owner showcase capacity exceeded")

// Registry owns the set of admin showcases and the per-owner slot arrays.
// It is hydrated from the config collaborator (admin) and the row store
// (owner) and torn down wholesale on reload/shutdown. All access happens
// on the engine goroutine.
type Registry struct {
	log   *log.Logger
	world string

	cfg  AdminSource
	rows RowStore

	adminDisp *Dispatcher
	ownerDisp *Dispatcher

	admin  map[*Showcase]struct{}
	owners map[int][]*Showcase
}

type RegistryConfig struct {
	// WorldID is the world showcase records hydrate into; the raw
	// records carry coordinates only.
	WorldID string
	Admin   AdminSource
	Rows    RowStore
	Log     *log.Logger
}

func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Log
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		log:    logger,
		world:  cfg.WorldID,
		cfg:    cfg.Admin,
		rows:   cfg.Rows,
		admin:  map[*Showcase]struct{}{},
		owners: map[int][]*Showcase{},
	}
}

// Attach binds the family dispatchers. Must be called before any hydrate
// or interaction path runs; split from the constructor because the
// dispatchers themselves need registry views.
func (r *Registry) Attach(adminDisp, ownerDisp *Dispatcher) {
	r.adminDisp = adminDisp
	r.ownerDisp = ownerDisp
}

// WorldID returns the world showcases hydrate into.
func (r *Registry) WorldID() string { return r.world }

func (r *Registry) dispatcherFor(owner Owner) *Dispatcher {
	if owner.IsAdmin() {
		return r.adminDisp
	}
	return r.ownerDisp
}

// CreateShowcase constructs a showcase entity: it registers both
// clickspace positions with the family dispatcher and spawns the marker.
// The caller is responsible for collection membership (the admin set or
// AddOwnerShowcase).
func (r *Registry) CreateShowcase(pos Position, icon ItemDescriptor, buy, sell *Offer, restricted bool, owner Owner) *Showcase {
	return newShowcase(r.dispatcherFor(owner), pos, icon, buy, sell, restricted, owner)
}

// Reload unconditionally tears down the current showcases, re-hydrates
// admin showcases from config and owner showcases from the row store.
// If the store cannot be reached, admin showcases stay loaded, the owner
// map stays empty, and Reload returns false: the admin shop must remain
// usable even when player-shop storage is down.
func (r *Registry) Reload() bool {
	r.DestroyAll()

	records, err := r.cfg.LoadAdminShowcases()
	if err != nil {
		r.log.Printf("registry: admin config scan failed: %v", err)
	}
	for _, rec := range records {
		pos := Position{World: r.world, X: rec.X, Y: rec.Y, Z: rec.Z}
		sc := r.CreateShowcase(pos, rec.Icon, rec.Buy, rec.Sell, rec.Restricted, Admin)
		r.admin[sc] = struct{}{}
	}
	r.log.Printf("registry: configuration scan complete, %d admin showcases", len(r.admin))

	if err := r.rows.EnsureSchema(); err != nil {
		r.log.Printf("registry: unable to check shops table, skipping player showcases: %v", err)
		return false
	}
	rows, err := r.rows.LoadAll()
	if err != nil {
		r.log.Printf("registry: shops table scan failed, skipping player showcases: %v", err)
		return false
	}
	for _, row := range rows {
		stock := row.Item.WithCount(row.Amount)
		buy, err := NewOffer(stock, float64(row.Price))
		if err != nil {
			r.log.Printf("registry: skipping shop row owner=%d xyz=%d,%d,%d: %v", row.OwnerID, row.X, row.Y, row.Z, err)
			continue
		}
		pos := Position{World: r.world, X: row.X, Y: row.Y, Z: row.Z}
		sc := r.CreateShowcase(pos, stock, buy, nil, false, OwnedBy(row.OwnerID))
		if err := r.AddOwnerShowcase(row.OwnerID, sc); err != nil {
			r.log.Printf("registry: skipping shop row owner=%d xyz=%d,%d,%d: %v", row.OwnerID, row.X, row.Y, row.Z, err)
			sc.Destroy()
			r.ownerDisp.RemoveClickspace(sc)
		}
	}
	r.log.Printf("registry: table scan complete, %d owners with showcases", len(r.owners))
	return true
}

// DestroyAll destroys every showcase, clears both clickspaces, and resets
// the collections to empty (never nil), so callers never observe an
// uninitialized registry afterwards.
func (r *Registry) DestroyAll() {
	for sc := range r.admin {
		sc.Destroy()
	}
	r.admin = map[*Showcase]struct{}{}
	if r.adminDisp != nil {
		r.adminDisp.ClearClickspace()
	}

	for _, slots := range r.owners {
		for _, sc := range slots {
			if sc != nil {
				sc.Destroy()
			}
		}
	}
	r.owners = map[int][]*Showcase{}
	if r.ownerDisp != nil {
		r.ownerDisp.ClearClickspace()
	}
}

// AddOwnerShowcase places the showcase in the owner's first free slot,
// allocating the slot array on first use. Returns ErrCapacity when all
// slots are taken.
func (r *Registry) AddOwnerShowcase(ownerID int, sc *Showcase) error {
	slots := r.owners[ownerID]
	if slots == nil {
		slots = make([]*Showcase, OwnerSlots)
		r.owners[ownerID] = slots
	}
	for i := range slots {
		if slots[i] == nil {
			slots[i] = sc
			return nil
		}
	}
	return ErrCapacity
}

// RemoveOwnerShowcase nulls the slot holding a showcase at the same
// position. Removal leaves a hole; there is no compaction. Unknown owners
// are a no-op.
func (r *Registry) RemoveOwnerShowcase(ownerID int, sc *Showcase) {
	slots := r.owners[ownerID]
	for i := range slots {
		if slots[i] != nil && slots[i].Position() == sc.Position() {
			slots[i] = nil
		}
	}
}

// CountOwnerShowcases returns the number of occupied slots; 0 for unknown
// owners. Callers must consult this before AddOwnerShowcase.
func (r *Registry) CountOwnerShowcases(ownerID int) int {
	n := 0
	for _, sc := range r.owners[ownerID] {
		if sc != nil {
			n++
		}
	}
	return n
}

// FindShowcaseAt returns the first showcase in the collection at exactly
// the given position; empty slots are skipped.
func (r *Registry) FindShowcaseAt(p Position, in []*Showcase) *Showcase {
	for _, sc := range in {
		if sc != nil && sc.Position() == p {
			return sc
		}
	}
	return nil
}

// OwnerShowcases returns the owner's slot array (holes included); nil for
// unknown owners.
func (r *Registry) OwnerShowcases(ownerID int) []*Showcase {
	return r.owners[ownerID]
}

// AdminShowcases returns a flat view of the admin set.
func (r *Registry) AdminShowcases() []*Showcase {
	out := make([]*Showcase, 0, len(r.admin))
	for sc := range r.admin {
		out = append(out, sc)
	}
	return out
}

// AllOwnerShowcases returns the de-duplicated union of every occupied slot
// across every owner, for passes that need one flat view of the player
// shops (reconciliation).
func (r *Registry) AllOwnerShowcases() []*Showcase {
	seen := map[*Showcase]struct{}{}
	out := make([]*Showcase, 0)
	for _, slots := range r.owners {
		for _, sc := range slots {
			if sc == nil {
				continue
			}
			if _, dup := seen[sc]; dup {
				continue
			}
			seen[sc] = struct{}{}
			out = append(out, sc)
		}
	}
	return out
}
