package config

import (
	"AudioFolio/pkg/logger"
	"AudioFolio/pkg/util"
	"log"
	"os"
)

// Config carries every externally supplied setting. It is loaded once in
// main and handed to each component at construction.
type Config struct {
	Addr      string `env:"ADDR"`
	Mode      string `env:"MODE"`
	APIPrefix string `env:"API_PREFIX"`

	DBDriver string `env:"DB_DRIVER"`
	DSN      string `env:"DSN"`

	Log logger.LogConfig

	// TTS engine (ElevenLabs compatible).
	TTSAPIKey  string `env:"TTS_API_KEY"`
	TTSBaseURL string `env:"TTS_BASE_URL"`

	// Object storage backend: "minio" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER"`

	// Poll-read snapshot cache: "gocache" or "redis".
	CacheType     string `env:"CACHE_TYPE"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	// Synthesis worker pool.
	Workers   int `env:"CONVERT_WORKERS"`
	QueueSize int `env:"CONVERT_QUEUE_SIZE"`

	RateLimit string `env:"RATE_LIMIT"` // e.g. "100-M", empty disables
}

func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg := &Config{
		Addr:      util.GetEnvDefault("ADDR", ":8080"),
		Mode:      util.GetEnv("MODE"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),
		DBDriver:  util.GetEnv("DB_DRIVER"),
		DSN:       util.GetEnv("DSN"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		TTSAPIKey:     util.GetEnv("TTS_API_KEY"),
		TTSBaseURL:    util.GetEnvDefault("TTS_BASE_URL", "https://api.elevenlabs.io"),
		StorageDriver: util.GetEnvDefault("STORAGE_DRIVER", "minio"),
		CacheType:     util.GetEnvDefault("CACHE_TYPE", "gocache"),
		RedisAddr:     util.GetEnv("REDIS_ADDR"),
		RedisPassword: util.GetEnv("REDIS_PASSWORD"),
		RedisDB:       int(util.GetIntEnv("REDIS_DB")),
		Workers:       int(util.GetIntEnv("CONVERT_WORKERS")),
		QueueSize:     int(util.GetIntEnv("CONVERT_QUEUE_SIZE")),
		RateLimit:     util.GetEnv("RATE_LIMIT"),
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return cfg
}
