package shop

// Collaborator interfaces. The engine only issues read/check and mutate
// calls against these; it never holds a lock across calls, so multi-step
// transactions are exposed to partial failure by design (see TryBuy).

// WorldItem is a physical dropped item, including showcase markers.
// Implementations must be comparable so a stray can be told apart from a
// showcase's own marker by identity.
type WorldItem interface {
	// Valid reports whether the item still exists in the world.
	Valid() bool
	Position() Position
	// Discard removes the item from the world. Idempotent.
	Discard()
}

// MarkerSpec describes the marker entity a showcase drops at its position:
// a fixed downward nudge so it settles onto the slab, and a pickup delay
// long enough that ambient actors can never collect it.
type MarkerSpec struct {
	Icon        ItemDescriptor
	VelocityY   float64
	PickupDelay int
}

// MarkerPickupDelay is treated as infinite by every world implementation.
const MarkerPickupDelay = 9999 * 9999

// WorldAccess is the physical-world collaborator.
type WorldAccess interface {
	// RegionLoaded reports whether the region containing p is active.
	// Marker repair defers while it is not.
	RegionLoaded(p Position) bool
	// SpawnMarker drops a new item centered on p.
	SpawnMarker(p Position, spec MarkerSpec) WorldItem
	// Items returns every dropped item currently in the named world.
	Items(world string) []WorldItem
	// ContainerAt returns the backing storage container at p, if a
	// container of the expected kind exists there.
	ContainerAt(p Position) (Container, bool)
	// AirAt reports whether p holds no block.
	AirAt(p Position) bool
	// PlaceSlab puts the showcase base block at p.
	PlaceSlab(p Position)
	// ClearBlock removes whatever block is at p.
	ClearBlock(p Position)
}

// Container is a chest-like inventory backing an owner showcase.
type Container interface {
	ContainsAtLeast(stock ItemDescriptor, amount int) bool
	// Remove deducts stock.Count items of stock's kind.
	Remove(stock ItemDescriptor)
	// FirstStack returns the first non-empty stack, for shop creation.
	FirstStack() (ItemDescriptor, bool)
	// Slots is the container's size; double chests are rejected for
	// shop creation.
	Slots() int
}

// Inventory is a personal or shared item store.
type Inventory interface {
	ContainsAtLeast(stock ItemDescriptor, amount int) bool
	Remove(stock ItemDescriptor)
	// Add inserts as much of stock as fits and returns the portion that
	// did not, with overflow true if that portion is non-empty.
	Add(stock ItemDescriptor) (leftover ItemDescriptor, overflow bool)
}

// Ledger is the currency collaborator.
type Ledger interface {
	Has(account string, amount float64) bool
	Deposit(account string, amount float64)
	Withdraw(account string, amount float64)
}

// CapDonator gates restricted showcases.
const CapDonator = "shoptopia.donator"

// Actor is the party interacting with a showcase.
type Actor interface {
	ID() string
	HasCapability(capability string) bool
	Inventory() Inventory
}

// GroupService resolves player groups: membership, the account credited
// when their shops sell, and the shared storage overflow goes to.
type GroupService interface {
	// GroupOf returns the group the actor belongs to, if any.
	GroupOf(actorID string) (int, bool)
	// GroupAt returns the group whose claim covers the position.
	GroupAt(p Position) (int, bool)
	IsMember(group int, actorID string) bool
	// PayeeOf returns the ledger account of the group's owner.
	PayeeOf(group int) (string, bool)
	SharedStorage(group int) Inventory
	Broadcast(group int, msg string)
}

// AdminSource hydrates administrator showcase records (config collaborator).
type AdminSource interface {
	LoadAdminShowcases() ([]AdminRecord, error)
}

// AdminRecord is one parsed admin showcase config entry.
type AdminRecord struct {
	X, Y, Z    int
	Restricted bool
	Icon       ItemDescriptor
	Buy, Sell  *Offer
}

// RowStore is the durable owner-showcase table collaborator, keyed by
// (owner_id, xyz).
type RowStore interface {
	EnsureSchema() error
	LoadAll() ([]OwnerRow, error)
	Insert(row OwnerRow) error
	Delete(ownerID, x, y, z int) error
}

// OwnerRow mirrors one shops-table row. Item carries the kind only (count
// 1); Amount is the offer quantity and Price is integral in the table.
type OwnerRow struct {
	OwnerID int
	Amount  int
	Price   int
	Item    ItemDescriptor
	X, Y, Z int
}

// TradeRecorder receives a durable record of every completed interaction
// and reconciliation repair.
type TradeRecorder interface {
	RecordTrade(e TradeEntry)
}

// Recorders fans a trade record out to several recorders.
type Recorders []TradeRecorder

func (rs Recorders) RecordTrade(e TradeEntry) {
	for _, r := range rs {
		if r != nil {
			r.RecordTrade(e)
		}
	}
}
