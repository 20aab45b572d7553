package shop_test

import (
	"testing"

	"github.com/skytopia/Shoptopia/internal/shop"
)

func TestDispatcher_ClickspaceCoversShowcaseAndBelow(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	sc := h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	if h.adminD.ShowcaseAt(p) != sc {
		t.Fatalf("showcase position must be clickable")
	}
	if h.adminD.ShowcaseAt(p.Below()) != sc {
		t.Fatalf("position below must be clickable")
	}
	if h.adminD.ShowcaseAt(p.Above()) != nil {
		t.Fatalf("position above must not be clickable")
	}
}

func TestDispatcher_RemoveClickspaceDropsBothEntries(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	sc := h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	h.adminD.RemoveClickspace(sc)
	if h.adminD.ShowcaseAt(p) != nil || h.adminD.ShowcaseAt(p.Below()) != nil {
		t.Fatalf("both clickspace entries must be removed")
	}
}

func TestDispatcher_InteractMissIsNotHandled(t *testing.T) {
	h := newHarness(t)
	actor := h.buyer("steve", 100)
	_, handled := h.adminD.HandleInteract(shop.InteractEvent{Pos: at(5, 5, 5), Click: shop.ClickPrimary}, actor)
	if handled {
		t.Fatalf("click with no showcase must pass through")
	}
}

func TestDispatcher_InteractRouting(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 10, 5), mustOffer(t, "WOOD", 10, 3), false, shop.Admin)
	actor := h.buyer("steve", 0)

	fb, handled := h.adminD.HandleInteract(shop.InteractEvent{Pos: p, Click: shop.ClickPrimary, Modifier: true}, actor)
	if !handled || !fb.OK || fb.Amount != 10 || fb.Price != 5 {
		t.Fatalf("primary+modifier must preview the buy side: %+v handled=%v", fb, handled)
	}

	fb, handled = h.adminD.HandleInteract(shop.InteractEvent{Pos: p, Click: shop.ClickSecondary, Modifier: true}, actor)
	if !handled || !fb.OK || fb.Amount != 10 || fb.Price != 3 {
		t.Fatalf("secondary+modifier must preview the sell side: %+v handled=%v", fb, handled)
	}

	// Without the modifier the primary click transacts; broke actor fails
	// on funds, proving TryBuy ran.
	fb, handled = h.adminD.HandleInteract(shop.InteractEvent{Pos: p, Click: shop.ClickPrimary}, actor)
	if !handled || fb.OK || fb.Code != shop.ErrNoFunds {
		t.Fatalf("primary must attempt the purchase: %+v handled=%v", fb, handled)
	}
}

func TestDispatcher_PreviewIsReadOnly(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 10, 5), nil, false, shop.Admin)
	actor := h.buyer("steve", 100)

	for i := 0; i < 3; i++ {
		fb, handled := h.adminD.HandleInteract(shop.InteractEvent{Pos: p, Click: shop.ClickPrimary, Modifier: true}, actor)
		if !handled || !fb.OK {
			t.Fatalf("preview %d: %+v", i, fb)
		}
	}
	if h.ledger.Balance("steve") != 100 {
		t.Fatalf("previews must never move money")
	}
	if len(h.trades.entries) != 0 {
		t.Fatalf("previews must not be journaled")
	}
}

func TestDispatcher_OwnerGroupMemberClickPassesThrough(t *testing.T) {
	h := newHarness(t)
	h.groups.AddGroup(7, "owner7", nil)
	h.groups.AddMember(7, "steve")
	p := at(0, 65, 0)
	h.ownerShop(t, p, 7, mustOffer(t, "WOOD", 10, 5), 10)
	member := h.buyer("steve", 100)

	fb, handled := h.ownerD.HandleInteract(shop.InteractEvent{Pos: p, Click: shop.ClickPrimary}, member)
	if handled {
		t.Fatalf("member click on own shop must pass through, got %+v", fb)
	}
	if h.ledger.Balance("steve") != 100 {
		t.Fatalf("no trade may run for the owner")
	}
}

func TestDispatcher_BlockBreakVeto(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	if !h.adminD.HandleBlockBreak(p) {
		t.Fatalf("break at the showcase must be vetoed")
	}
	if !h.adminD.HandleBlockBreak(p.Below()) {
		t.Fatalf("break below the showcase must be vetoed")
	}
	if h.adminD.HandleBlockBreak(at(9, 9, 9)) {
		t.Fatalf("unrelated break must pass")
	}
	other := shop.Position{World: "nether", X: 0, Y: 65, Z: 0}
	if h.adminD.HandleBlockBreak(other) {
		t.Fatalf("break in another world must pass")
	}
}

func TestDispatcher_DespawnVeto(t *testing.T) {
	h := newHarness(t)
	sc := h.reg.CreateShowcase(at(0, 65, 0), item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	if !h.adminD.HandleDespawn(sc.Marker()) {
		t.Fatalf("marker despawn must be vetoed")
	}
	stray := h.world.DropItem(at(3, 65, 3), item("DIRT", 1))
	if h.adminD.HandleDespawn(stray) {
		t.Fatalf("ordinary item despawn must pass")
	}
}

func TestDispatcher_ReconcileDiscardsStrays(t *testing.T) {
	h := newHarness(t)
	p := at(0, 65, 0)
	h.admin.recs = []shop.AdminRecord{
		{X: p.X, Y: p.Y, Z: p.Z, Icon: item("WOOD", 1), Buy: mustOffer(t, "WOOD", 1, 1)},
	}
	if !h.reg.Reload() {
		t.Fatalf("reload failed")
	}
	sc := h.reg.AdminShowcases()[0]
	marker := sc.Marker()

	// A stray anywhere on the showcase's column is cleaned up.
	stray := h.world.DropItem(at(0, 80, 0), item("DIRT", 3))
	h.adminD.Reconcile()

	if stray.Valid() {
		t.Fatalf("stray must be discarded")
	}
	if sc.Marker() != marker || !marker.Valid() {
		t.Fatalf("showcase's own marker must survive")
	}
	if got := h.trades.ofType(shop.TradeStray); len(got) != 1 {
		t.Fatalf("stray discard entries = %d", len(got))
	}
}

func TestDispatcher_ReconcileRespawnsLostMarkers(t *testing.T) {
	h := newHarness(t)
	h.admin.recs = []shop.AdminRecord{
		{X: 0, Y: 65, Z: 0, Icon: item("WOOD", 1), Buy: mustOffer(t, "WOOD", 1, 1)},
	}
	if !h.reg.Reload() {
		t.Fatalf("reload failed")
	}
	sc := h.reg.AdminShowcases()[0]
	sc.Marker().Discard()

	h.adminD.Reconcile()
	if sc.Marker() == nil || !sc.Marker().Valid() {
		t.Fatalf("lost marker must be respawned")
	}
	if got := h.trades.ofType(shop.TradeRespawn); len(got) != 1 {
		t.Fatalf("respawn entries = %d", len(got))
	}
}

func TestDispatcher_ReconcileDefersInUnloadedRegion(t *testing.T) {
	h := newHarness(t)
	p := at(200, 65, 200)
	h.world.SetRegionLoaded(p, false)
	h.admin.recs = []shop.AdminRecord{
		{X: p.X, Y: p.Y, Z: p.Z, Icon: item("WOOD", 1), Buy: mustOffer(t, "WOOD", 1, 1)},
	}
	if !h.reg.Reload() {
		t.Fatalf("reload failed")
	}
	sc := h.reg.AdminShowcases()[0]

	h.adminD.Reconcile()
	if sc.Marker() != nil {
		t.Fatalf("reconcile must defer while the region is unloaded")
	}

	h.world.SetRegionLoaded(p, true)
	h.adminD.Reconcile()
	if sc.Marker() == nil || !sc.Marker().Valid() {
		t.Fatalf("reconcile must finish the repair once the region loads")
	}
}
