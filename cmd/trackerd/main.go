package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"machine-booking-backend/config"
	"machine-booking-backend/internal/api"
	"machine-booking-backend/internal/db"
	"machine-booking-backend/internal/janitor"
	"machine-booking-backend/internal/mirror"
	"machine-booking-backend/internal/notification"
	"machine-booking-backend/internal/rules"
	"machine-booking-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "tracker-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Entity store and the live mirror over it
	entityStore := store.NewGormStore(gormDB)
	stateMirror := mirror.New(entityStore)
	stateMirror.Start()
	defer stateMirror.Close()

	if !stateMirror.WaitReady(ctx, cfg.Sync.StartupGrace) {
		logger.Printf("no booking snapshot within %s, serving empty state until the store catches up", cfg.Sync.StartupGrace)
	}

	// Push notifications are optional; without VAPID keys the API still runs,
	// it just answers 503 on the public-key endpoint and dispatches nothing.
	var webpushOptions *webpush.Options
	var dispatcher rules.Dispatcher
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logger.Fatalf("push is enabled but VAPID keys are not configured")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}

		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, stateMirror, webpushOptions)
		pool.Start(ctx)
		dispatcher = pool
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	}

	engine := rules.NewEngine(entityStore, stateMirror, dispatcher)

	// Background sweep for bookings orphaned by interrupted cascades
	if cfg.Janitor.Enabled {
		go janitor.New(entityStore, stateMirror, cfg.Janitor.Interval).Run(ctx)
	}

	// Initialize router
	handler := api.NewHandler(engine, stateMirror, gormDB, webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
