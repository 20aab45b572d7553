package shop

import (
	"fmt"
	"log"
)

// doubleChestSlots is the slot count of a joined chest pair. Shops may only
// be backed by a single chest.
const doubleChestSlots = 54

// Service is the command surface: reload, shop creation and removal, and
// status queries. It must only be driven from the engine goroutine (wrap
// calls in Engine.Call).
type Service struct {
	log      *log.Logger
	registry *Registry
	rows     RowStore
	world    WorldAccess
	groups   GroupService
}

type ServiceConfig struct {
	Registry *Registry
	Rows     RowStore
	World    WorldAccess
	Groups   GroupService
	Log      *log.Logger
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Log
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		log:      logger,
		registry: cfg.Registry,
		rows:     cfg.Rows,
		world:    cfg.World,
		groups:   cfg.Groups,
	}
}

// Info summarizes the registry for operators.
func (s *Service) Info() string {
	return fmt.Sprintf("world=%s admin_showcases=%d owner_showcases=%d",
		s.registry.WorldID(), len(s.registry.AdminShowcases()), len(s.registry.AllOwnerShowcases()))
}

// Reload tears down and rehydrates every showcase from the config file and
// the shop database.
func (s *Service) Reload() Feedback {
	if !s.registry.Reload() {
		return fail("", msgReloadFailed)
	}
	return Feedback{OK: true, Message: msgReloadOK}
}

// CreateShop turns the chest at target into a player shop selling amount of
// its first stack for price. The showcase sits on a slab placed on top of
// the chest. The shop belongs to the land-owning group, not to the actor
// personally, so any member of the group manages it.
func (s *Service) CreateShop(actor Actor, target Position, amount, price int) Feedback {
	if target.World != s.registry.WorldID() {
		return fail(ErrInvalidLocation, msgBadLocation)
	}
	backing, ok := s.world.ContainerAt(target)
	if !ok {
		return fail(ErrNoChest, msgChestNotFound)
	}
	if backing.Slots() >= doubleChestSlots {
		return fail(ErrInvalidBlock, msgBadBlock)
	}
	group, ok := s.groups.GroupAt(target)
	if !ok || !s.groups.IsMember(group, actor.ID()) {
		return fail(ErrInvalidLocation, msgBadLocation)
	}
	if s.registry.CountOwnerShowcases(group) >= OwnerSlots {
		return fail(ErrTooMany, msgTooManyShops)
	}
	above := target.Above()
	if s.registry.FindShowcaseAt(above, s.registry.OwnerShowcases(group)) != nil {
		return fail(ErrInvalidBlock, msgBadBlock)
	}
	if !s.world.AirAt(above) {
		return fail(ErrObstructed, msgObstructed)
	}
	stack, ok := backing.FirstStack()
	if !ok {
		return fail(ErrNoStock, msgNoChestStock)
	}

	offer, err := NewOffer(stack.WithCount(amount), float64(price))
	if err != nil {
		return fail(ErrInvalidBlock, msgBadBlock)
	}

	s.world.PlaceSlab(above)
	sc := s.registry.CreateShowcase(above, stack.WithCount(1), offer, nil, false, OwnedBy(group))
	if err := s.registry.AddOwnerShowcase(group, sc); err != nil {
		// Raced past the count check; undo the world edits.
		s.registry.ownerDisp.RemoveClickspace(sc)
		sc.Destroy()
		s.world.ClearBlock(above)
		return fail(ErrTooMany, msgTooManyShops)
	}
	row := OwnerRow{
		OwnerID: group,
		Amount:  offer.Amount(),
		Price:   price,
		Item:    stack.WithCount(1),
		X:       above.X,
		Y:       above.Y,
		Z:       above.Z,
	}
	if err := s.rows.Insert(row); err != nil {
		// The showcase stays live; the next reload loses it, which beats
		// destroying stock the player just committed.
		s.log.Printf("shop insert failed at %s: %v", above, err)
	}
	return Feedback{OK: true, Message: msgShopCreated}
}

// RemoveShop tears down the player shop whose chest is at target.
func (s *Service) RemoveShop(actor Actor, target Position) Feedback {
	if target.World != s.registry.WorldID() {
		return fail(ErrInvalidLocation, msgBadLocation)
	}
	group, ok := s.groups.GroupAt(target)
	if !ok || !s.groups.IsMember(group, actor.ID()) {
		return fail(ErrInvalidLocation, msgBadLocation)
	}
	above := target.Above()
	sc := s.registry.FindShowcaseAt(above, s.registry.OwnerShowcases(group))
	if sc == nil {
		return fail(ErrNoShop, msgNoShopHere)
	}
	s.registry.ownerDisp.RemoveClickspace(sc)
	s.registry.RemoveOwnerShowcase(group, sc)
	sc.Destroy()
	s.world.ClearBlock(above)
	if err := s.rows.Delete(group, above.X, above.Y, above.Z); err != nil {
		s.log.Printf("shop delete failed at %s: %v", above, err)
	}
	return Feedback{OK: true, Message: msgShopRemoved}
}
