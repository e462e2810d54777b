package handlers

import (
	"AudioFolio/internal/jobs"
	"AudioFolio/internal/models"
	"AudioFolio/internal/tts"
	"AudioFolio/pkg/cache"
	"AudioFolio/pkg/config"
	"AudioFolio/pkg/middleware"
	stores "AudioFolio/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	db      *gorm.DB
	cfg     *config.Config
	store   stores.Store
	engine  tts.Engine
	tracker *jobs.Tracker
	queue   *jobs.Queue
	cache   cache.Cache
	logger  *zap.Logger
}

func NewHandlers(db *gorm.DB, cfg *config.Config, store stores.Store, engine tts.Engine, tracker *jobs.Tracker, queue *jobs.Queue, c cache.Cache, logger *zap.Logger) *Handlers {
	return &Handlers{
		db:      db,
		cfg:     cfg,
		store:   store,
		engine:  engine,
		tracker: tracker,
		queue:   queue,
		cache:   c,
		logger:  logger,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	r := engine.Group(h.cfg.APIPrefix)

	r.Use(middleware.InjectDB(h.db))
	r.Use(middleware.RateLimiter(h.cfg.RateLimit))

	h.registerSystemRoutes(r)
	h.registerConversionRoutes(r)
	h.registerVoiceRoutes(r)
}

func (h *Handlers) registerConversionRoutes(r *gin.RouterGroup) {
	conversions := r.Group("conversions")
	conversions.Use(models.AuthRequired)
	{
		conversions.POST("", h.handleStartConversion)

		conversions.GET("/:id", h.handleGetConversion)

		conversions.GET("/:id/audio", h.handleDownloadAudio)

		conversions.POST("/:id/metadata", h.handleExportMetadata)
	}
}

func (h *Handlers) registerVoiceRoutes(r *gin.RouterGroup) {
	voices := r.Group("voices")
	voices.Use(models.AuthRequired)
	{
		voices.GET("", h.handleListVoices)

		voices.POST("/clones", h.handleStartVoiceClone)

		voices.GET("/clones/:id", h.handleGetVoiceClone)
	}
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("system")
	{
		system.GET("/health", h.HealthCheck)
	}
}
