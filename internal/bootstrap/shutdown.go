package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/persist"
	"github.com/osse101/IdleRealm_Go/internal/realtime"
	"github.com/osse101/IdleRealm_Go/internal/scheduler"
	"github.com/osse101/IdleRealm_Go/internal/server"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Bridge may be nil.
type ShutdownComponents struct {
	Server             *server.Server
	Hub                *realtime.Hub
	Scheduler          *scheduler.Scheduler
	Pool               *worker.Pool
	Cache              *persist.Cache
	ResilientPublisher *event.ResilientPublisher
	Bridge             *realtime.Bridge
	Store              store.Store
}

// GracefulShutdown stops the application in dependency order:
//  1. realtime hub, so streaming handlers return and their owners disconnect
//  2. HTTP server, draining in-flight requests
//  3. heartbeat scheduler and worker pool, so no step runs after this point
//  4. a final flush of every dirty character
//  5. event publisher, then the NATS bridge and the store
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	c.Hub.Stop()
	if err := c.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	slog.Info(LogMsgStoppingHeartbeat)
	c.Scheduler.Stop()
	c.Pool.Stop()

	slog.Info(LogMsgFinalFlush)
	if _, err := c.Cache.Flush(ctx); err != nil {
		slog.Error(LogMsgFinalFlushFailed, "dirty", len(c.Cache.Dirty()), "error", err)
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}
	if c.Bridge != nil {
		if err := c.Bridge.Close(); err != nil {
			slog.Error(LogMsgNATSCloseFailed, "error", err)
		}
	}
	if err := c.Store.Close(); err != nil {
		slog.Error(LogMsgStoreCloseFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
