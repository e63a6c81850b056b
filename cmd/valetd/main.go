package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"valet-board-backend/config"
	"valet-board-backend/internal/alert"
	"valet-board-backend/internal/api"
	"valet-board-backend/internal/audit"
	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/board"
	"valet-board-backend/internal/db"
	"valet-board-backend/internal/live"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/sales"
	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
	"valet-board-backend/pkg/metrics"
)

func main() {
	log := logger.NewLogger()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load configuration", "path", configPath, "error", err)
	}
	log.Info("configuration loaded", "path", configPath, "store", cfg.Board.StoreID)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	log.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	m := metrics.New("valet_board")
	recorder := audit.NewRecorder(appStore, log)
	storeID := cfg.Board.StoreID

	// Dispatchers carry the rosters screens choose names from.
	boardDisp := board.NewDispatcher(appStore, recorder, cfg.Rosters.Valets, log)
	salesDisp := sales.NewDispatcher(appStore, recorder, cfg.Rosters.Drivers, log)

	tickets := live.NewService(store.TableTickets,
		func(ctx context.Context) ([]model.Ticket, error) {
			return appStore.ListTickets(ctx, storeID)
		},
		appStore.Notifier().Subscribe(store.TableTickets),
		cfg.Board.ReloadInterval, cfg.Board.RenderInterval, log, m)

	pickups := live.NewService(store.TableSalesPickups,
		func(ctx context.Context) ([]model.SalesPickup, error) {
			return appStore.ListSalesPickups(ctx, storeID)
		},
		appStore.Notifier().Subscribe(store.TableSalesPickups),
		cfg.Board.ReloadInterval, cfg.Board.RenderInterval, log, m)

	// Severity alerts go out over web push when VAPID keys are configured.
	var webpushOptions *webpush.Options
	var cuer alert.Cuer
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := alert.NewWebPushCuer(cfg.WorkerPool.Size, appStore, webpushOptions, log)
		pool.Start(ctx)
		cuer = pool
	} else {
		log.Warn("VAPID keys not configured; severity alerts will only be logged")
	}

	notifier := alert.NewNotifier(cuer, log, m)
	tickets.AddConsumer(func(items []model.Ticket, now time.Time) {
		notifier.Observe(live.ActiveSubset(items), now)
	})

	go tickets.Run(ctx)
	go pickups.Run(ctx)

	resolver := auth.NewStaticResolver(tokenTable(cfg))

	handler := api.NewHandler(api.HandlerDeps{
		Store:        appStore,
		Tickets:      tickets,
		Pickups:      pickups,
		Board:        boardDisp,
		Sales:        salesDisp,
		Resolver:     resolver,
		WebPush:      webpushOptions,
		DefaultStore: storeID,
		CompletedCap: cfg.Board.CompletedDisplayCap,
		Log:          log,
		Metrics:      m,
	})

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimit: cfg.Server.RateLimitPerSec,
		RateBurst: cfg.Server.RateLimitBurst,
		CacheTTL:  time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		IPHeader:  cfg.Server.RequestIPHeader,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutdown signal received, stopping services")

	// Cancel the sync loops and workers before draining the server.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown failed", "error", err)
	}

	log.Info("server stopped")
}

func tokenTable(cfg *config.Config) map[string]auth.Identity {
	tokens := make(map[string]auth.Identity, len(cfg.Auth.Tokens))
	for _, t := range cfg.Auth.Tokens {
		tokens[t.Token] = auth.Identity{
			UserID:        t.UserID,
			EffectiveRole: auth.Role(t.Role),
			TenantID:      t.StoreID,
		}
	}
	return tokens
}
