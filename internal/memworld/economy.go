package memworld

import "github.com/skytopia/Shoptopia/internal/shop"

// Ledger is an in-memory currency service keyed by account name.
type Ledger struct {
	balances map[string]float64
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]float64)}
}

func (l *Ledger) Has(account string, amount float64) bool {
	return l.balances[account] >= amount
}

func (l *Ledger) Deposit(account string, amount float64) {
	l.balances[account] += amount
}

func (l *Ledger) Withdraw(account string, amount float64) {
	l.balances[account] -= amount
}

func (l *Ledger) SetBalance(account string, amount float64) {
	l.balances[account] = amount
}

func (l *Ledger) Balance(account string) float64 {
	return l.balances[account]
}

// Group is one player group: an owner account that shop income goes to,
// a member set, a shared storage, and a message log for broadcasts.
type Group struct {
	OwnerAccount string
	Members      map[string]bool
	Storage      *Inventory
	Messages     []string
}

// Groups implements group membership, land claims and shared storage.
// Claims cover a full world column at each claimed X/Z.
type Groups struct {
	groups map[int]*Group
	claims map[columnKey]int
}

type columnKey struct {
	World string
	X     int
	Z     int
}

func NewGroups() *Groups {
	return &Groups{
		groups: make(map[int]*Group),
		claims: make(map[columnKey]int),
	}
}

// AddGroup registers a group. Storage defaults to a single-chest-sized
// shared store when nil.
func (g *Groups) AddGroup(id int, ownerAccount string, storage *Inventory) *Group {
	if storage == nil {
		storage = NewInventory(27)
	}
	grp := &Group{
		OwnerAccount: ownerAccount,
		Members:      make(map[string]bool),
		Storage:      storage,
	}
	g.groups[id] = grp
	return grp
}

func (g *Groups) AddMember(id int, actorID string) {
	if grp, ok := g.groups[id]; ok {
		grp.Members[actorID] = true
	}
}

// Claim assigns the column at p's X/Z to the group.
func (g *Groups) Claim(id int, p shop.Position) {
	g.claims[columnKey{World: p.World, X: p.X, Z: p.Z}] = id
}

func (g *Groups) GroupOf(actorID string) (int, bool) {
	for id, grp := range g.groups {
		if grp.Members[actorID] {
			return id, true
		}
	}
	return 0, false
}

func (g *Groups) GroupAt(p shop.Position) (int, bool) {
	id, ok := g.claims[columnKey{World: p.World, X: p.X, Z: p.Z}]
	return id, ok
}

func (g *Groups) IsMember(group int, actorID string) bool {
	grp, ok := g.groups[group]
	return ok && grp.Members[actorID]
}

func (g *Groups) PayeeOf(group int) (string, bool) {
	grp, ok := g.groups[group]
	if !ok {
		return "", false
	}
	return grp.OwnerAccount, true
}

func (g *Groups) SharedStorage(group int) shop.Inventory {
	grp, ok := g.groups[group]
	if !ok {
		return nil
	}
	return grp.Storage
}

func (g *Groups) Broadcast(group int, msg string) {
	if grp, ok := g.groups[group]; ok {
		grp.Messages = append(grp.Messages, msg)
	}
}

// Actor is a connected player.
type Actor struct {
	AID  string
	Caps map[string]bool
	Inv  *Inventory
}

func NewActor(id string, invSize int) *Actor {
	return &Actor{AID: id, Caps: make(map[string]bool), Inv: NewInventory(invSize)}
}

func (a *Actor) ID() string { return a.AID }

func (a *Actor) HasCapability(capability string) bool { return a.Caps[capability] }

func (a *Actor) Inventory() shop.Inventory { return a.Inv }
