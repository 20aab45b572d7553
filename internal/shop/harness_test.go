package shop_test

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/skytopia/Shoptopia/internal/memworld"
	"github.com/skytopia/Shoptopia/internal/shop"
)

const testWorld = "world_1"

type fakeAdmin struct {
	recs []shop.AdminRecord
	err  error
}

func (f *fakeAdmin) LoadAdminShowcases() ([]shop.AdminRecord, error) { return f.recs, f.err }

type fakeRows struct {
	rows      []shop.OwnerRow
	schemaErr error
	loadErr   error
	insertErr error
	inserted  []shop.OwnerRow
	deleted   []string
}

func (f *fakeRows) EnsureSchema() error { return f.schemaErr }

func (f *fakeRows) LoadAll() ([]shop.OwnerRow, error) { return f.rows, f.loadErr }

func (f *fakeRows) Insert(row shop.OwnerRow) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, row)
	return nil
}

func (f *fakeRows) Delete(ownerID, x, y, z int) error {
	f.deleted = append(f.deleted, fmt.Sprintf("%d:%d,%d,%d", ownerID, x, y, z))
	return nil
}

type recorderLog struct {
	entries []shop.TradeEntry
}

func (r *recorderLog) RecordTrade(e shop.TradeEntry) { r.entries = append(r.entries, e) }

func (r *recorderLog) ofType(kind string) []shop.TradeEntry {
	var out []shop.TradeEntry
	for _, e := range r.entries {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// harness wires a registry and both dispatchers over the in-memory world.
type harness struct {
	world  *memworld.World
	ledger *memworld.Ledger
	groups *memworld.Groups
	admin  *fakeAdmin
	rows   *fakeRows
	trades *recorderLog
	reg    *shop.Registry
	adminD *shop.Dispatcher
	ownerD *shop.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	h := &harness{
		world:  memworld.NewWorld(),
		ledger: memworld.NewLedger(),
		groups: memworld.NewGroups(),
		admin:  &fakeAdmin{},
		rows:   &fakeRows{},
		trades: &recorderLog{},
	}
	h.reg = shop.NewRegistry(shop.RegistryConfig{
		WorldID: testWorld,
		Admin:   h.admin,
		Rows:    h.rows,
		Log:     logger,
	})
	h.adminD = shop.NewDispatcher(shop.DispatcherConfig{
		WorldID: testWorld,
		World:   h.world,
		Ledger:  h.ledger,
		Groups:  h.groups,
		Trades:  h.trades,
		View:    h.reg.AdminShowcases,
		Log:     logger,
	})
	h.ownerD = shop.NewDispatcher(shop.DispatcherConfig{
		WorldID: testWorld,
		World:   h.world,
		Ledger:  h.ledger,
		Groups:  h.groups,
		Trades:  h.trades,
		View:    h.reg.AllOwnerShowcases,
		Log:     logger,
	})
	h.reg.Attach(h.adminD, h.ownerD)
	return h
}

func at(x, y, z int) shop.Position {
	return shop.Position{World: testWorld, X: x, Y: y, Z: z}
}

func item(kind string, count int) shop.ItemDescriptor {
	return shop.ItemDescriptor{Kind: kind, Count: count}
}

func mustOffer(t *testing.T, kind string, count int, price float64) *shop.Offer {
	t.Helper()
	o, err := shop.NewOffer(item(kind, count), price)
	if err != nil {
		t.Fatalf("offer %s x%d @%v: %v", kind, count, price, err)
	}
	return o
}

// ownerShop sets up a group-owned showcase at p backed by a chest below
// it, stocked with chestCount items of the offer kind.
func (h *harness) ownerShop(t *testing.T, p shop.Position, group int, offer *shop.Offer, chestCount int) *shop.Showcase {
	t.Helper()
	chest := h.world.PlaceContainer(p.Below(), 27)
	if chestCount > 0 {
		chest.Put(offer.Stock().WithCount(chestCount))
	}
	sc := h.reg.CreateShowcase(p, offer.Stock().WithCount(1), offer, nil, false, shop.OwnedBy(group))
	if err := h.reg.AddOwnerShowcase(group, sc); err != nil {
		t.Fatalf("add owner showcase: %v", err)
	}
	return sc
}

// buyer creates an actor with a funded account outside any group.
func (h *harness) buyer(id string, balance float64) *memworld.Actor {
	h.ledger.SetBalance(id, balance)
	return memworld.NewActor(id, 36)
}
