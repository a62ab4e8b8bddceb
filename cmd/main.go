package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/logger/pkg/logger"
	"github.com/cwrk-planet/relay-service/config"
	"github.com/cwrk-planet/relay-service/internal/idgen"
	"github.com/cwrk-planet/relay-service/internal/memstore"
	"github.com/cwrk-planet/relay-service/internal/service"
	httpx "github.com/cwrk-planet/relay-service/internal/transport/http"
	"github.com/cwrk-planet/relay-service/internal/transport/ws"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting relay-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- stores ---
	// Everything lives in process memory: rooms, queues and connections
	// are gone on restart, by contract.
	gen, err := idgen.New(cfg.Relay.IDLength)
	if err != nil {
		log.Fatalf("idgen: %v", err)
	}
	roomRepo := memstore.NewRoomRepository(gen)
	signalRepo := memstore.NewSignalRepository(cfg.Relay.SignalRetentionOr(memstore.DefaultRetention))

	// --- services ---
	roomSvc := service.NewRoomService(roomRepo, signalRepo)
	signalSvc := service.NewSignalService(roomRepo, signalRepo)

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub)

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, signalSvc)
	router := httpx.NewRouter(handler, roomSvc, wsServer, cfg.Relay.AllowedOrigins)
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// --- janitor ---
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitor := service.NewJanitor(roomRepo, signalRepo,
		cfg.Relay.RoomTTLOr(time.Hour),
		cfg.Relay.SweepEveryOr(time.Minute))
	go janitor.Run(janitorCtx)

	// --- run ---
	errCh := make(chan error, 1)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	stopJanitor()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
