package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	handlers "AudioFolio/internal/handler"
	"AudioFolio/internal/jobs"
	"AudioFolio/internal/models"
	"AudioFolio/internal/tts"
	"AudioFolio/pkg/cache"
	"AudioFolio/pkg/config"
	"AudioFolio/pkg/logger"
	"AudioFolio/pkg/metrics"
	stores "AudioFolio/pkg/storage"
	"AudioFolio/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog := logger.Init(cfg.Log)
	defer zlog.Sync()

	db, err := util.InitDatabase(nil, cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("database migrate failed: %v", err)
	}

	var store stores.Store
	switch cfg.StorageDriver {
	case "memory":
		store = stores.NewMemoryStore()
	default:
		store = stores.NewMinioStore()
	}

	statusCache, err := cache.New(cache.Config{
		Type: cfg.CacheType,
		Redis: cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
	})
	if err != nil {
		log.Fatalf("cache init failed: %v", err)
	}
	defer statusCache.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	engine := tts.NewElevenLabs(cfg.TTSAPIKey, cfg.TTSBaseURL, zlog)
	tracker := jobs.NewTracker(db)
	queue := jobs.NewQueue(cfg.QueueSize, zlog, m)
	pipeline := jobs.NewPipeline(tracker, engine, store, zlog, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx, cfg.Workers, pipeline)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware(m))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	h := handlers.NewHandlers(db, cfg, store, engine, tracker, queue, statusCache, zlog)
	h.Register(router)

	zlog.Info("server starting", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
