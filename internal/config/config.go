package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	GRPC      GRPCConfig
	Worker    WorkerConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Timeline  TimelineConfig
	Impact    ImpactConfig
}

type GRPCConfig struct {
	Port int
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	RPS int
}

type CORSConfig struct {
	AllowOrigins []string
}

type TimelineConfig struct {
	Countdown            time.Duration
	Window               time.Duration
	CountdownInterval    time.Duration
	RouteInterval        time.Duration
	WarningLeadTimeHours float64
	EvacuationStartHours float64
}

type ImpactConfig struct {
	CoastalSites []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 50051),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 4),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/impact-risk.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			RPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Timeline: TimelineConfig{
			Countdown:            getEnvDuration("TIMELINE_COUNTDOWN", 11*24*time.Hour+14*time.Hour+32*time.Minute),
			Window:               getEnvDuration("TIMELINE_WINDOW", 14*24*time.Hour),
			CountdownInterval:    getEnvDuration("TIMELINE_COUNTDOWN_INTERVAL", time.Second),
			RouteInterval:        getEnvDuration("TIMELINE_ROUTE_INTERVAL", 120*time.Millisecond),
			WarningLeadTimeHours: getEnvFloat("TIMELINE_WARNING_LEAD_TIME_HOURS", 8),
			EvacuationStartHours: getEnvFloat("TIMELINE_EVACUATION_START_HOURS", 6),
		},
		Impact: ImpactConfig{
			CoastalSites: getEnvList("IMPACT_COASTAL_SITES", []string{"new-york", "tokyo", "sydney"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 1 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative")
	}
	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	if c.Timeline.Countdown < 0 {
		return fmt.Errorf("timeline countdown must not be negative")
	}
	if c.Timeline.Window < c.Timeline.Countdown {
		return fmt.Errorf("timeline window must cover the countdown")
	}
	if c.Timeline.CountdownInterval <= 0 || c.Timeline.RouteInterval <= 0 {
		return fmt.Errorf("timeline tick intervals must be positive")
	}
	if c.Timeline.WarningLeadTimeHours < 1 || c.Timeline.WarningLeadTimeHours > 72 {
		return fmt.Errorf("warning lead time must be between 1 and 72 hours")
	}
	if c.Timeline.EvacuationStartHours < 0 || c.Timeline.EvacuationStartHours > c.Timeline.WarningLeadTimeHours {
		return fmt.Errorf("evacuation start must be between 0 and the warning lead time")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
