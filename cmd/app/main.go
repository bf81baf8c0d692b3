package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/osse101/IdleRealm_Go/docs"
	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/bootstrap"
	"github.com/osse101/IdleRealm_Go/internal/combat"
	"github.com/osse101/IdleRealm_Go/internal/concurrency"
	"github.com/osse101/IdleRealm_Go/internal/config"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/dungeon"
	"github.com/osse101/IdleRealm_Go/internal/game"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
	"github.com/osse101/IdleRealm_Go/internal/persist"
	"github.com/osse101/IdleRealm_Go/internal/progression"
	"github.com/osse101/IdleRealm_Go/internal/realtime"
	"github.com/osse101/IdleRealm_Go/internal/scheduler"
	"github.com/osse101/IdleRealm_Go/internal/server"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/tick"
	"github.com/osse101/IdleRealm_Go/internal/utils"
	"github.com/osse101/IdleRealm_Go/internal/worker"
)

// Scheduled job names
const (
	jobHeartbeat = "heartbeat"
	jobFlush     = "flush"
)

// @title IdleRealm API
// @version 1.0
// @description Idle RPG simulation service: characters, tasks, equipment and claims.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.Info(bootstrap.LogMsgStartingIdleRealm,
		"version", cfg.Version,
		"environment", cfg.Environment,
		"store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open character store", "error", err)
		os.Exit(1)
	}

	cat, err := bootstrap.LoadCatalog(cfg)
	if err != nil {
		slog.Error("Failed to load static catalog", "error", err)
		os.Exit(1)
	}

	clock := domain.NewRealClock()
	ledger := progression.NewLedger(cfg.InventoryCap)
	rng := utils.NewLockedRand(time.Now().UnixNano())
	activityEngine := activity.NewEngine(cat, ledger, rng, activity.WithMinActionTime(cfg.TickInterval))
	combatEngine := combat.NewEngine(cat, ledger, rng)
	dungeonEngine := dungeon.NewEngine(cat, ledger, combatEngine)

	gate := concurrency.NewGate(concurrency.WithWaitObserver(func(d time.Duration) {
		metrics.GateWait.Observe(d.Seconds())
	}))
	cache := persist.NewCache(st, gate, clock, persist.WithIdleEvictAfter(cfg.IdleEvictAfter))
	advancer := tick.NewAdvancer(activityEngine, combatEngine, dungeonEngine,
		tick.WithDriftThreshold(cfg.TickDriftThreshold))

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	sink := tick.NewSink(publisher, store.NewSessionLogWriter(st))

	gameService := game.NewService(game.Deps{
		Cache:     cache,
		Store:     st,
		Gate:      gate,
		Catalog:   cat,
		Ledger:    ledger,
		Activity:  activityEngine,
		Combat:    combatEngine,
		Dungeon:   dungeonEngine,
		Advancer:  advancer,
		Sink:      sink,
		Publisher: publisher,
		Clock:     clock,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()

	ticker := tick.NewTicker(advancer, cache, gate, pool, sink, clock)
	sched := scheduler.New(pool, scheduler.WithSkipHook(func(name string) {
		slog.Warn("Scheduled job skipped, previous run still queued", "job", name)
	}))
	sched.Schedule(jobHeartbeat, cfg.TickInterval, ticker)
	sched.Schedule(jobFlush, cfg.FlushInterval, cache.Job())

	hub := realtime.NewHub()
	hub.Start()
	presence := realtime.NewPresence(hub, gameService)

	var bridge *realtime.Bridge
	if cfg.NATSURL != "" {
		conn, err := realtime.ConnectNATS(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			// realtime fan-out is best effort; local subscribers still work
			slog.Warn("NATS unavailable, continuing without bridge", "url", cfg.NATSURL, "error", err)
		} else {
			bridge = realtime.NewBridge(conn, cfg.NATSSubjectPrefix)
		}
	}

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: bus,
		Hub:      hub,
		Bridge:   bridge,
	}); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(server.Deps{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
		Store:          st,
		Game:           gameService,
		Catalog:        cat,
		Presence:       presence,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Hub:                hub,
		Scheduler:          sched,
		Pool:               pool,
		Cache:              cache,
		ResilientPublisher: publisher,
		Bridge:             bridge,
		Store:              st,
	})
}
