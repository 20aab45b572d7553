package shop

import (
	"context"
	"log"
	"time"
)

// DefaultReconcileEvery matches the original 100-tick anti-tamper period
// at 20 ticks per second.
const DefaultReconcileEvery = 5 * time.Second

type interactReq struct {
	Ev    InteractEvent
	Actor Actor
	Resp  chan interactResp
}

type interactResp struct {
	Feedback Feedback
	Handled  bool
}

type vetoReq struct {
	Pos  Position
	Item WorldItem
	Resp chan bool
}

type callReq struct {
	Fn   func()
	Done chan struct{}
}

// Engine owns the registry and both family dispatchers and serializes all
// access onto one goroutine: world-event handlers, commands, and the
// reconciliation ticker all execute there, so the in-memory structures
// need no locking.
type Engine struct {
	log       *log.Logger
	registry  *Registry
	adminDisp *Dispatcher
	ownerDisp *Dispatcher

	reconcileEvery time.Duration

	interact chan interactReq
	breaks   chan vetoReq
	despawns chan vetoReq
	calls    chan callReq
	stop     chan struct{}
}

type EngineConfig struct {
	Registry       *Registry
	AdminDisp      *Dispatcher
	OwnerDisp      *Dispatcher
	ReconcileEvery time.Duration
	Log            *log.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Log
	if logger == nil {
		logger = log.Default()
	}
	every := cfg.ReconcileEvery
	if every <= 0 {
		every = DefaultReconcileEvery
	}
	return &Engine{
		log:            logger,
		registry:       cfg.Registry,
		adminDisp:      cfg.AdminDisp,
		ownerDisp:      cfg.OwnerDisp,
		reconcileEvery: every,
		interact:       make(chan interactReq, 64),
		breaks:         make(chan vetoReq, 64),
		despawns:       make(chan vetoReq, 64),
		calls:          make(chan callReq, 16),
		stop:           make(chan struct{}),
	}
}

// Run drives the engine until the context is cancelled or Stop is called.
// Teardown destroys every showcase; any in-flight request completed before
// teardown because both run on this goroutine.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.reconcileEvery)
	defer ticker.Stop()

	// First pass immediately: markers for freshly hydrated showcases in
	// unloaded regions get their repair attempt without waiting a period.
	e.reconcile()

	for {
		select {
		case <-ctx.Done():
			e.registry.DestroyAll()
			return ctx.Err()
		case <-e.stop:
			e.registry.DestroyAll()
			return nil
		case req := <-e.interact:
			fb, handled := e.handleInteract(req.Ev, req.Actor)
			req.Resp <- interactResp{Feedback: fb, Handled: handled}
		case req := <-e.breaks:
			req.Resp <- e.adminDisp.HandleBlockBreak(req.Pos) || e.ownerDisp.HandleBlockBreak(req.Pos)
		case req := <-e.despawns:
			req.Resp <- e.adminDisp.HandleDespawn(req.Item) || e.ownerDisp.HandleDespawn(req.Item)
		case req := <-e.calls:
			req.Fn()
			close(req.Done)
		case <-ticker.C:
			e.reconcile()
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

func (e *Engine) reconcile() {
	e.adminDisp.Reconcile()
	e.ownerDisp.Reconcile()
}

func (e *Engine) handleInteract(ev InteractEvent, actor Actor) (Feedback, bool) {
	if fb, handled := e.adminDisp.HandleInteract(ev, actor); handled {
		return fb, true
	}
	return e.ownerDisp.HandleInteract(ev, actor)
}

// Interact submits a world click and waits for the verdict. handled=true
// means the caller must cancel the underlying world action.
func (e *Engine) Interact(ev InteractEvent, actor Actor) (Feedback, bool) {
	req := interactReq{Ev: ev, Actor: actor, Resp: make(chan interactResp, 1)}
	e.interact <- req
	resp := <-req.Resp
	return resp.Feedback, resp.Handled
}

// BlockBreak reports whether a break at p must be vetoed.
func (e *Engine) BlockBreak(p Position) bool {
	req := vetoReq{Pos: p, Resp: make(chan bool, 1)}
	e.breaks <- req
	return <-req.Resp
}

// ItemDespawn reports whether an ambient despawn of item must be vetoed.
func (e *Engine) ItemDespawn(item WorldItem) bool {
	req := vetoReq{Item: item, Resp: make(chan bool, 1)}
	e.despawns <- req
	return <-req.Resp
}

// Call runs fn on the engine goroutine and waits for it. Registry and
// dispatcher methods are only safe from there.
func (e *Engine) Call(fn func()) {
	req := callReq{Fn: fn, Done: make(chan struct{})}
	e.calls <- req
	<-req.Done
}
