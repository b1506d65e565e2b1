package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/waterwatch/go-water-watch/internal/aggregate"
	"github.com/waterwatch/go-water-watch/internal/api"
	"github.com/waterwatch/go-water-watch/internal/config"
	"github.com/waterwatch/go-water-watch/internal/docstore"
	"github.com/waterwatch/go-water-watch/internal/logging"
	"github.com/waterwatch/go-water-watch/internal/points"
	"github.com/waterwatch/go-water-watch/internal/repository"
	"github.com/waterwatch/go-water-watch/internal/stream"
	"github.com/waterwatch/go-water-watch/internal/symptoms"
	"github.com/waterwatch/go-water-watch/internal/verify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := docstore.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)

	// Broadcaster for the SSE area-update stream
	broadcaster := stream.NewBroadcaster()

	engine := points.NewEngine(store, store)
	aggregator := aggregate.NewService(store, store, broadcaster)
	gate := verify.NewGate(store, store, store, engine, cfg.Authority.Keys)

	var remote symptoms.Assessor
	if cfg.Assess.URL != "" {
		remote = symptoms.NewRemoteAssessor(cfg.Assess.URL, cfg.Assess.Timeout)
		slog.Info("remote assessment enabled", "url", cfg.Assess.URL)
	}
	assessor := symptoms.NewService(remote, store, cfg.Limits.History)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RPS))

	handler := api.NewHandler(store, store, store, aggregator, gate, engine, assessor, broadcaster, cfg.Limits.Notifications)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	broadcaster.Close() // Close all streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
