package shop

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Transaction precondition failures are reported to the acting party as
// feedback values, never as Go errors: all of them are recoverable and no
// state is mutated when one fires.
const (
	ErrNotPurchasable   = "E_NOT_PURCHASABLE"
	ErrNotSellable      = "E_NOT_SELLABLE"
	ErrAdminNotSellable = "E_ADMIN_NOT_SELLABLE"
	ErrShopBroken       = "E_SHOP_BROKEN"
	ErrOutOfStock       = "E_OUT_OF_STOCK"
	ErrDonatorOnly      = "E_DONATOR_ONLY"
	ErrNoFunds          = "E_NO_FUNDS"
	ErrNoItems          = "E_NO_ITEMS"

	ErrInvalidLocation = "E_INVALID_LOCATION"
	ErrNoChest         = "E_NO_CHEST"
	ErrInvalidBlock    = "E_INVALID_BLOCK"
	ErrTooMany         = "E_TOO_MANY"
	ErrObstructed      = "E_OBSTRUCTED"
	ErrNoStock         = "E_NO_STOCK"
	ErrNoShop          = "E_NO_SHOP"
)

const (
	msgNoBuy          = "This item cannot be purchased."
	msgNoSell         = "You cannot sell here."
	msgNoAdminSell    = "This item cannot be sold."
	msgShopBroken     = "This shop is broken. Please try again later."
	msgOutOfStock     = "This player shop is out of stock!"
	msgDonatorOnly    = "This shop is for donators only!"
	msgNoFunds        = "You do not have enough money to purchase this!"
	msgNoItems        = "You do not have enough items to sell!"
	msgInventoryFull  = "Some items were unable to fit into your inventory.\nWe have relocated these items to any empty storage space."
	msgBuyPreview     = "Purchase %d of this item for %s!"
	msgBuySuccess     = "Purchased %d of this item for %s!"
	msgSellPreview    = "Sell %d of this item for %s!"
	msgSellSuccess    = "Sold %d of this item for %s!"
	msgShopCreated    = "You have successfully created a player shop!"
	msgShopRemoved    = "You have successfully removed this player shop!"
	msgNoShopHere     = "There is currently no shop set up here!"
	msgBadLocation    = "You are not allowed to do that here!"
	msgChestNotFound  = "You are not looking at a chest block!"
	msgBadBlock       = "You cannot create a shop here!"
	msgTooManyShops   = "You cannot create more than 12 shops at once!"
	msgObstructed     = "The chest is being obstructed. Please remove any blocks above it!"
	msgNoChestStock   = "There are no items in your designated chest!"
	msgReloadOK       = "Showcases successfully reloaded."
	msgReloadFailed   = "Player showcases were not able to be loaded. Some may be missing..."
)

// Feedback is the outcome of a showcase interaction or registry command,
// handed back to whatever surface talks to the acting party.
type Feedback struct {
	OK      bool
	Code    string
	Message string

	// Quantity and price involved, for successful trades and previews.
	Amount int
	Price  float64

	// Overflow is set when part of a purchase was redirected into the
	// buyer's group shared storage.
	Overflow bool
}

func fail(code, message string) Feedback {
	return Feedback{Code: code, Message: message}
}

func succeed(message string, amount int, price float64) Feedback {
	return Feedback{OK: true, Message: message, Amount: amount, Price: price}
}

// FormatPrice renders a price with at most two decimals, trailing zeros
// trimmed ("5", "2.5", "0.25").
func FormatPrice(p float64) string {
	s := strconv.FormatFloat(math.Round(p*100)/100, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// TradeEntry is the journal/feed record of one completed interaction or
// reconciliation repair.
type TradeEntry struct {
	Time   string  `json:"time"`
	Type   string  `json:"type"`
	Actor  string  `json:"actor,omitempty"`
	Owner  string  `json:"owner"`
	World  string  `json:"world"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Z      int     `json:"z"`
	Item   string  `json:"item,omitempty"`
	Amount int     `json:"amount,omitempty"`
	Price  float64 `json:"price,omitempty"`
	OK     bool    `json:"ok"`
	Code   string  `json:"code,omitempty"`
}

// Trade entry types.
const (
	TradeBuy     = "BUY"
	TradeSell    = "SELL"
	TradeRespawn = "RESPAWN"
	TradeStray   = "STRAY_DISCARD"
)

func entryTime() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
