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

	"github.com/mr1hm/go-impact-risk/internal/api"
	"github.com/mr1hm/go-impact-risk/internal/config"
	internalgrpc "github.com/mr1hm/go-impact-risk/internal/grpc"
	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/logging"
	"github.com/mr1hm/go-impact-risk/internal/metrics"
	"github.com/mr1hm/go-impact-risk/internal/mitigation"
	"github.com/mr1hm/go-impact-risk/internal/repository"
	"github.com/mr1hm/go-impact-risk/internal/stream"
	"github.com/mr1hm/go-impact-risk/internal/sweep"
	"github.com/mr1hm/go-impact-risk/internal/timeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calc := impact.NewCalculator(cfg.Impact.CoastalSites...)

	sweeper := sweep.NewSweeper(calc, cfg.Worker.Count, cfg.Worker.BufferSize)
	sweeper.Start(ctx)

	grpcServer := internalgrpc.NewServer()
	go func() {
		grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		if err := grpcServer.Start(grpcAddr); err != nil {
			logging.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Timeline snapshots go to SSE subscribers, prometheus gauges and the
	// gRPC health status.
	broadcaster := stream.NewBroadcaster()
	sim, err := timeline.NewSimulator(timeline.Options{
		CountdownSeconds:     int64(cfg.Timeline.Countdown / time.Second),
		Window:               cfg.Timeline.Window,
		WarningLeadTimeHours: cfg.Timeline.WarningLeadTimeHours,
		EvacuationStartHours: cfg.Timeline.EvacuationStartHours,
		CountdownInterval:    cfg.Timeline.CountdownInterval,
		RouteInterval:        cfg.Timeline.RouteInterval,
		Publisher:            timeline.Publishers{broadcaster, metrics.TimelineRecorder{}, grpcServer},
	})
	if err != nil {
		logging.Fatalf("Failed to initialize timeline: %v", err)
	}
	sim.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS))

	handler := api.NewHandler(api.Deps{
		Calculator:  calc,
		Catalog:     mitigation.DefaultCatalog(),
		Simulator:   sim,
		Broadcaster: broadcaster,
		Sweeper:     sweeper,
		Repo:        db,
	})
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

	sim.Stop()
	cancel()
	sweeper.Stop()
	broadcaster.Close() // Close all streams gracefully
	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
