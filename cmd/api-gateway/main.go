// Package main boots the scheduler HTTP API: config, structured logging,
// an optional Redis proposal cache, and the Gin router from
// internal/httpapi. Trimmed from the teacher's cmd/api-gateway (which
// also wired Postgres, JWT auth, swagger docs, cutover/analytics
// middleware and a dozen academic-record services) down to the
// scheduling-only surface SPEC_FULL.md §6.6 names — see DESIGN.md.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vishwaksen/campus-scheduler/internal/cache"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
	"github.com/vishwaksen/campus-scheduler/internal/httpapi"
	rediscache "github.com/vishwaksen/campus-scheduler/pkg/cache"
	"github.com/vishwaksen/campus-scheduler/pkg/config"
	"github.com/vishwaksen/campus-scheduler/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, proposals will not survive across requests", "error", err)
	}
	proposalCache := cache.New(redisClient, cfg.Scheduler.ProposalTTL)
	metrics := httpapi.NewMetrics()

	scheduleHandler := httpapi.NewScheduleHandler(proposalCache, logr, metrics, httpapi.Defaults{
		Algorithm:            engine.Algorithm(cfg.Scheduler.DefaultAlgorithm),
		Timeout:              cfg.Scheduler.DefaultTimeout,
		MaxConsecutiveTheory: cfg.Scheduler.MaxConsecutiveTheory,
		PeriodsPerDay:        cfg.Scheduler.PeriodsPerDay,
	})

	router := httpapi.NewRouter(cfg, logr, scheduleHandler, metrics)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", portOrDefault(cfg.Port)),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("starting scheduler api", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func portOrDefault(port int) int {
	if port <= 0 {
		return 8080
	}
	return port
}
