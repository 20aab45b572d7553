package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skytopia/Shoptopia/internal/config"
	"github.com/skytopia/Shoptopia/internal/memworld"
	persistlog "github.com/skytopia/Shoptopia/internal/persistence/log"
	"github.com/skytopia/Shoptopia/internal/persistence/shopdb"
	"github.com/skytopia/Shoptopia/internal/shop"
	"github.com/skytopia/Shoptopia/internal/transport/feed"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "http listen address")
		worldID   = flag.String("world", "world_1", "world id showcases live in")
		shopsPath = flag.String("shops", "./configs/shops.yaml", "admin showcase config path")
		dbPath    = flag.String("db", "./data/shops.db", "player shop database path")
		dataDir   = flag.String("data", "./data", "runtime data directory (trade journal)")
		reconcile = flag.Duration("reconcile", shop.DefaultReconcileEvery, "marker reconciliation period")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	store, err := shopdb.Open(*dbPath)
	if err != nil {
		logger.Fatalf("open shop db: %v", err)
	}
	defer store.Close()

	tradeLog := persistlog.NewTradeLogger(*dataDir, logger)
	defer tradeLog.Close()

	feedSrv := feed.NewServer(logger)
	defer feedSrv.Close()

	// The binary runs the engine over the in-memory world until a game
	// bridge feeds it real events; the HTTP surface below is what ops and
	// integrations talk to either way.
	world := memworld.NewWorld()
	ledger := memworld.NewLedger()
	groups := memworld.NewGroups()

	registry := shop.NewRegistry(shop.RegistryConfig{
		WorldID: *worldID,
		Admin:   config.NewSource(*shopsPath, logger),
		Rows:    store,
		Log:     logger,
	})
	trades := shop.Recorders{tradeLog, feedSrv}
	adminDisp := shop.NewDispatcher(shop.DispatcherConfig{
		WorldID: *worldID,
		World:   world,
		Ledger:  ledger,
		Groups:  groups,
		Trades:  trades,
		View:    registry.AdminShowcases,
		Log:     logger,
	})
	ownerDisp := shop.NewDispatcher(shop.DispatcherConfig{
		WorldID: *worldID,
		World:   world,
		Ledger:  ledger,
		Groups:  groups,
		Trades:  trades,
		View:    registry.AllOwnerShowcases,
		Log:     logger,
	})
	registry.Attach(adminDisp, ownerDisp)

	engine := shop.NewEngine(shop.EngineConfig{
		Registry:       registry,
		AdminDisp:      adminDisp,
		OwnerDisp:      ownerDisp,
		ReconcileEvery: *reconcile,
		Log:            logger,
	})
	service := shop.NewService(shop.ServiceConfig{
		Registry: registry,
		Rows:     store,
		World:    world,
		Groups:   groups,
		Log:      logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := engine.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("engine stopped: %v", err)
		}
	}()

	var boot shop.Feedback
	engine.Call(func() { boot = service.Reload() })
	if !boot.OK {
		logger.Printf("boot reload: %s", boot.Message)
	} else {
		logger.Printf("boot reload: %s", service.Info())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/feed", feedSrv.Handler())
	mux.HandleFunc("/admin/v1/info", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		var info string
		engine.Call(func() { info = service.Info() })
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]string{"info": info})
	})
	mux.HandleFunc("/admin/v1/reload", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		var fb shop.Feedback
		engine.Call(func() { fb = service.Reload() })
		rw.Header().Set("Content-Type", "application/json")
		if !fb.OK {
			rw.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(rw).Encode(map[string]any{"ok": fb.OK, "message": fb.Message})
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	<-engineDone
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
