package shop

import "fmt"

// PreviewBuy reports the buy offer's quantity and price. Read-only: no
// balances, inventories, or offers change no matter how often it runs.
func (d *Dispatcher) PreviewBuy(sc *Showcase) Feedback {
	buy := sc.BuyOffer()
	if buy == nil {
		return fail(ErrNotPurchasable, msgNoBuy)
	}
	return succeed(fmt.Sprintf(msgBuyPreview, buy.Amount(), FormatPrice(buy.Price())), buy.Amount(), buy.Price())
}

// PreviewSell reports the sell offer's quantity and price. An admin shop
// without a sell side is "this item cannot be sold"; an owner shop is
// "you cannot sell here" — different user-facing conditions.
func (d *Dispatcher) PreviewSell(sc *Showcase) Feedback {
	sell := sc.SellOffer()
	if sell == nil {
		if sc.IsAdminShop() {
			return fail(ErrAdminNotSellable, msgNoAdminSell)
		}
		return fail(ErrNotSellable, msgNoSell)
	}
	return succeed(fmt.Sprintf(msgSellPreview, sell.Amount(), FormatPrice(sell.Price())), sell.Amount(), sell.Price())
}

// TryBuy runs the purchase transaction. The mutation steps are independent
// calls against the ledger, the buyer's inventory, and the backing
// container, with no compensating rollback: a failure partway through
// leaves the collaborators inconsistent. That exposure is a documented
// property of this engine, not an oversight.
func (d *Dispatcher) TryBuy(sc *Showcase, actor Actor) Feedback {
	buy := sc.BuyOffer()

	// Owner shops sell out of the chest directly beneath the showcase.
	var backing Container
	if !sc.IsAdminShop() {
		c, ok := d.world.ContainerAt(sc.Position().Below())
		if !ok {
			return fail(ErrShopBroken, msgShopBroken)
		}
		backing = c
		if buy != nil && !backing.ContainsAtLeast(buy.Stock(), buy.Amount()) {
			return fail(ErrOutOfStock, msgOutOfStock)
		}
	}

	if sc.Restricted() && !actor.HasCapability(CapDonator) {
		return fail(ErrDonatorOnly, msgDonatorOnly)
	}
	if buy == nil {
		return fail(ErrNotPurchasable, msgNoBuy)
	}
	if !d.ledger.Has(actor.ID(), buy.Price()) {
		return fail(ErrNoFunds, msgNoFunds)
	}

	// Deliver the stock; whatever does not fit goes to the buyer's group
	// shared storage, and the group is told about it.
	leftover, overflow := actor.Inventory().Add(buy.Stock())
	if overflow {
		if group, ok := d.groups.GroupOf(actor.ID()); ok {
			d.groups.SharedStorage(group).Add(leftover)
			d.groups.Broadcast(group, msgInventoryFull)
		}
	}

	if !sc.IsAdminShop() {
		backing.Remove(buy.Stock())
		if group, owned := sc.Owner().GroupID(); owned {
			if payee, ok := d.groups.PayeeOf(group); ok {
				d.ledger.Deposit(payee, buy.Price())
			}
		}
	}
	d.ledger.Withdraw(actor.ID(), buy.Price())

	fb := succeed(fmt.Sprintf(msgBuySuccess, buy.Amount(), FormatPrice(buy.Price())), buy.Amount(), buy.Price())
	fb.Overflow = overflow
	d.record(d.tradeEntry(TradeBuy, sc, actor, fb))
	return fb
}

// TrySell runs the sale transaction: donator gate, offer presence, item
// check, then remove items and credit the seller.
func (d *Dispatcher) TrySell(sc *Showcase, actor Actor) Feedback {
	if sc.Restricted() && !actor.HasCapability(CapDonator) {
		return fail(ErrDonatorOnly, msgDonatorOnly)
	}
	sell := sc.SellOffer()
	if sell == nil {
		if sc.IsAdminShop() {
			return fail(ErrAdminNotSellable, msgNoAdminSell)
		}
		return fail(ErrNotSellable, msgNoSell)
	}
	if !actor.Inventory().ContainsAtLeast(sell.Stock(), sell.Amount()) {
		return fail(ErrNoItems, msgNoItems)
	}

	actor.Inventory().Remove(sell.Stock())
	d.ledger.Deposit(actor.ID(), sell.Price())

	fb := succeed(fmt.Sprintf(msgSellSuccess, sell.Amount(), FormatPrice(sell.Price())), sell.Amount(), sell.Price())
	d.record(d.tradeEntry(TradeSell, sc, actor, fb))
	return fb
}

func (d *Dispatcher) tradeEntry(kind string, sc *Showcase, actor Actor, fb Feedback) TradeEntry {
	e := TradeEntry{
		Time:   entryTime(),
		Type:   kind,
		Actor:  actor.ID(),
		Owner:  sc.Owner().String(),
		World:  sc.Position().World,
		X:      sc.Position().X,
		Y:      sc.Position().Y,
		Z:      sc.Position().Z,
		Amount: fb.Amount,
		Price:  fb.Price,
		OK:     fb.OK,
		Code:   fb.Code,
	}
	var offer *Offer
	if kind == TradeSell {
		offer = sc.SellOffer()
	} else {
		offer = sc.BuyOffer()
	}
	if offer != nil {
		e.Item = offer.Stock().ItemString()
	}
	return e
}
