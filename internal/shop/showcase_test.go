package shop_test

import (
	"testing"

	"github.com/skytopia/Shoptopia/internal/shop"
)

func TestShowcase_SpawnsMarkerOnCreate(t *testing.T) {
	h := newHarness(t)
	offer := mustOffer(t, "WOOD", 10, 5)
	sc := h.reg.CreateShowcase(at(0, 65, 0), item("WOOD", 1), offer, nil, false, shop.Admin)

	m := sc.Marker()
	if m == nil || !m.Valid() {
		t.Fatalf("marker missing after create")
	}
	if m.Position() != at(0, 65, 0) {
		t.Fatalf("marker at %v", m.Position())
	}
	if !h.adminD.Exempt(m) {
		t.Fatalf("marker must be despawn-exempt")
	}
}

func TestShowcase_RespawnIsIdempotent(t *testing.T) {
	h := newHarness(t)
	sc := h.reg.CreateShowcase(at(0, 65, 0), item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	m := sc.Marker()
	sc.Respawn()
	if sc.Marker() != m {
		t.Fatalf("respawn with a valid marker must be a no-op")
	}
}

func TestShowcase_RespawnReplacesInvalidMarker(t *testing.T) {
	h := newHarness(t)
	sc := h.reg.CreateShowcase(at(0, 65, 0), item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)

	old := sc.Marker()
	old.Discard()
	sc.Respawn()

	m := sc.Marker()
	if m == old || m == nil || !m.Valid() {
		t.Fatalf("invalid marker must be replaced")
	}
	if h.adminD.Exempt(old) {
		t.Fatalf("replaced marker must lose its exemption")
	}
	if !h.adminD.Exempt(m) {
		t.Fatalf("new marker must gain the exemption")
	}
}

func TestShowcase_RespawnDefersWhileRegionUnloaded(t *testing.T) {
	h := newHarness(t)
	p := at(100, 65, 100)
	h.world.SetRegionLoaded(p, false)

	sc := h.reg.CreateShowcase(p, item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)
	if sc.Marker() != nil {
		t.Fatalf("marker must not spawn in an unloaded region")
	}
	if h.adminD.ShowcaseAt(p) != sc {
		t.Fatalf("showcase must still be clickable while deferred")
	}

	h.world.SetRegionLoaded(p, true)
	sc.Respawn()
	if sc.Marker() == nil || !sc.Marker().Valid() {
		t.Fatalf("marker must spawn once the region loads")
	}
}

func TestShowcase_DestroyIsTerminal(t *testing.T) {
	h := newHarness(t)
	sc := h.reg.CreateShowcase(at(0, 65, 0), item("WOOD", 1), mustOffer(t, "WOOD", 1, 1), nil, false, shop.Admin)
	m := sc.Marker()

	sc.Destroy()
	if sc.State() != shop.StateDestroyed {
		t.Fatalf("state = %v", sc.State())
	}
	if m.Valid() {
		t.Fatalf("marker must be discarded on destroy")
	}
	if sc.Marker() != nil || sc.BuyOffer() != nil || sc.SellOffer() != nil {
		t.Fatalf("destroy must clear references")
	}

	sc.Destroy() // idempotent
	sc.Respawn() // must not resurrect
	if sc.Marker() != nil {
		t.Fatalf("destroyed showcase must never respawn a marker")
	}
}
