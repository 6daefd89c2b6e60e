// Package main is the entry point for the room planner server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/lmoratilla/RoomPlanner/server/internal/allocation"
	"github.com/lmoratilla/RoomPlanner/server/internal/events"
	"github.com/lmoratilla/RoomPlanner/server/internal/infra/cache"
	"github.com/lmoratilla/RoomPlanner/server/internal/infra/storage"
	"github.com/lmoratilla/RoomPlanner/server/internal/network"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/config"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/metrics"
)

// AllocationStoreAdapter translates service results to storage records.
type AllocationStoreAdapter struct {
	repo storage.AllocationRepository
}

func (a *AllocationStoreAdapter) Save(ctx context.Context, res allocation.Result) error {
	rec := storage.AllocationRecord{
		ID:          res.ID,
		RequestedAt: res.RequestedAt,
		RoomCount:   res.Request.RoomCount,
		Adults:      res.Request.Adults,
		Seniors:     res.Request.Seniors,
		Children:    res.Request.Children,
		Feasible:    res.Feasible,
	}
	for i, rm := range res.Rooms {
		rec.Rooms = append(rec.Rooms, storage.RoomRow{
			RoomIndex: i,
			Adults:    rm.Adults,
			Seniors:   rm.Seniors,
			Children:  rm.Children,
		})
	}
	return a.repo.Save(ctx, rec)
}

// EventPersisterAdapter translates domain events to storage events.
type EventPersisterAdapter struct {
	repo storage.EventRepository
}

func (a *EventPersisterAdapter) Append(event events.AllocationEvent) error {
	return a.repo.AppendEvent(context.Background(), storage.EventRecord{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		RoomCount: event.RoomCount,
		Adults:    event.Adults,
		Seniors:   event.Seniors,
		Children:  event.Children,
	})
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence: Postgres when a DSN is configured, SQLite otherwise.
	var (
		allocRepo storage.AllocationRepository
		eventRepo storage.EventRepository
		persister events.Persister
	)
	if cfg.PostgresDSN != "" {
		db, err := storage.InitPostgres(cfg.PostgresDSN)
		if err != nil {
			appLogger.Error("failed to init postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		allocRepo = storage.NewPostgresAllocationRepository(db)
		appLogger.Info("using postgres storage")
	} else {
		db, err := storage.InitSQLite(cfg.SQLitePath)
		if err != nil {
			appLogger.Error("failed to init sqlite", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		allocRepo = storage.NewSQLiteAllocationRepository(db)
		eventRepo = storage.NewSQLiteEventRepository(db)
		persister = &EventPersisterAdapter{repo: eventRepo}
		appLogger.Info("using sqlite storage", "path", cfg.SQLitePath)
	}

	eventLog := events.NewEventLog(persister)
	if eventRepo != nil {
		// Rehydrate the in-memory log so /events replays across restarts.
		recs, err := eventRepo.ListEvents(ctx, 1000)
		if err != nil {
			appLogger.Warn("failed to rehydrate event log", "error", err)
		} else {
			past := make([]events.AllocationEvent, 0, len(recs))
			for i := len(recs) - 1; i >= 0; i-- { // newest-first to append order
				rec := recs[i]
				past = append(past, events.AllocationEvent{
					ID:        rec.ID,
					Timestamp: rec.Timestamp,
					Type:      events.EventType(rec.EventType),
					RoomCount: rec.RoomCount,
					Adults:    rec.Adults,
					Seniors:   rec.Seniors,
					Children:  rec.Children,
				})
			}
			eventLog.Load(past)
		}
	}

	// Optional Redis result cache.
	var resultCache allocation.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			appLogger.Warn("redis unreachable, running without cache", "error", err)
		} else {
			ttl := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
			resultCache = cache.NewResultCache(client, ttl)
			appLogger.Info("redis result cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	hub := network.NewHub(appLogger, cfg.Buffers.BroadcastBuffer, cfg.Buffers.ClientSendBuffer)
	go hub.Run(ctx)

	service := allocation.NewService(
		cfg.RoomCapacity,
		eventLog,
		&AllocationStoreAdapter{repo: allocRepo},
		resultCache,
		hub,
		appLogger,
	)

	api := network.NewAPI(service, hub, appLogger)
	history := network.NewHistoryHandler(allocRepo, eventLog, appLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/allocate", api.HandleAllocate)
	mux.HandleFunc("/history", history.HandleHistory)
	mux.HandleFunc("/allocations/", history.HandleAllocation)
	mux.HandleFunc("/events", history.HandleEvents)
	mux.HandleFunc("/healthz", api.HandleHealth)
	mux.HandleFunc("/ws", api.HandleWS)
	mux.HandleFunc("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		appLogger.Info("room planner server listening", "addr", cfg.ListenAddr, "capacity", cfg.RoomCapacity)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		appLogger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}
	cancel()
	appLogger.Info("server stopped")
}
