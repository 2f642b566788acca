package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"indyscope/internal/config"
	cronrunner "indyscope/internal/cron"
	"indyscope/internal/esi"
	"indyscope/internal/handler"
	"indyscope/internal/logger"
	"indyscope/internal/pricing"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
	"indyscope/internal/service"
	"indyscope/internal/store"
)

func main() {
	cfgPath := os.Getenv("INDY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("INDY_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dataset, err := sde.Load(cfg.Dataset.Dir)
	if err != nil {
		logger.Fatal("dataset load failed", zap.String("dir", cfg.Dataset.Dir), zap.Error(err))
	}
	logger.Info("dataset loaded", zap.Int("name_index_keys", len(dataset.NameKeys())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(store.Options{
		RedisURL:    cfg.Store.RedisURL,
		PostgresDSN: cfg.Store.PostgresDSN,
	}, logger)

	httpClient := &http.Client{Timeout: cfg.Market.Timeout}
	oracle := &pricing.Oracle{
		Orders:     esi.NewClient(httpClient, cfg.Market.ESIBaseURL),
		Aggregates: esi.NewAggregateClient(httpClient, cfg.Market.AggregateBaseURL),
		Data:       dataset,
		Cache:      pricing.NewQuoteCache(cfg.Market.CacheTTL, st, logger),
		Pool:       pricing.NewPool(cfg.Market.Concurrency),
		Logger:     logger,
		MaxPages:   cfg.Market.MaxPages,
	}

	analyzer := &service.Analyzer{
		Resolver: &resolver.Resolver{Data: dataset, Logger: logger},
		Oracle:   oracle,
		Data:     dataset,
		Logger:   logger,
	}
	settingsSvc := &service.SettingsService{Store: st}
	watchlist := &service.Watchlist{Store: st, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	(&handler.HealthHandler{Data: dataset}).Register(engine)
	(&handler.AnalyzeHandler{Analyzer: analyzer, Settings: settingsSvc, Logger: logger}).Register(engine)
	(&handler.WatchlistHandler{Watchlist: watchlist}).Register(engine)
	(&handler.SettingsHandler{Settings: settingsSvc}).Register(engine)

	var runner *cronrunner.Runner
	if cfg.Cron.Enabled {
		runner = cronrunner.New(logger, ctx)
		_, err := runner.Add(cfg.Cron.WatchlistRefresh, func(jobCtx context.Context) {
			watchlist.Refresh(jobCtx, oracle, settingsSvc.Load(jobCtx))
		})
		if err != nil {
			logger.Fatal("cron schedule invalid", zap.String("spec", cfg.Cron.WatchlistRefresh), zap.Error(err))
		}
		runner.Start()
	}

	srv := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: engine}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if runner != nil {
		runner.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
