package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/parlorchat/parlor/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rate_limiter"`
	RoomStore   RoomStoreConfig   `koanf:"room_store"`
	WebSocket   WebSocketConfig   `koanf:"websocket"`
	Logging     LoggingConfig     `koanf:"logging"`
	Tracing     TracingConfig     `koanf:"tracing"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requests_per_time_frame"`
	TimeFrame            time.Duration `koanf:"time_frame"`
}

type RoomStoreConfig struct {
	HistoryCapacity uint `koanf:"history_capacity"`
}

type WebSocketConfig struct {
	SendBuffer      int `koanf:"send_buffer"`
	ReadBufferSize  int `koanf:"read_buffer_size"`
	WriteBufferSize int `koanf:"write_buffer_size"`
}

type LoggingConfig struct {
	Level      string `koanf:"level"`
	FilePath   string `koanf:"file_path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`
	Endpoint    string `koanf:"endpoint"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if one was found
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.idle_timeout", time.Minute)

	setDefault(k, "rate_limiter.requests_per_time_frame", 100)
	setDefault(k, "rate_limiter.time_frame", 5*time.Second)

	setDefault(k, "room_store.history_capacity", 50)

	setDefault(k, "websocket.send_buffer", 64)
	setDefault(k, "websocket.read_buffer_size", 1024)
	setDefault(k, "websocket.write_buffer_size", 1024)

	setDefault(k, "logging.level", "info")
	setDefault(k, "logging.max_size_mb", 50)
	setDefault(k, "logging.max_backups", 3)
	setDefault(k, "logging.max_age_days", 14)

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.service_name", "parlor")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.endpoint", "http://localhost:4318")
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	if requests := env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 0); requests > 0 {
		k.Set("rate_limiter.requests_per_time_frame", requests)
	}
	if frame := env.GetInt("RATE_LIMIT_TIME_FRAME_SECONDS", 0); frame > 0 {
		k.Set("rate_limiter.time_frame", time.Duration(frame)*time.Second)
	}

	if capacity := env.GetInt("ROOM_HISTORY_CAPACITY", 0); capacity > 0 {
		k.Set("room_store.history_capacity", uint(capacity))
	}
	if buffer := env.GetInt("WS_SEND_BUFFER", 0); buffer > 0 {
		k.Set("websocket.send_buffer", buffer)
	}

	if level := env.GetString("LOG_LEVEL", ""); level != "" {
		k.Set("logging.level", level)
	}
	if filePath := env.GetString("LOG_FILE_PATH", ""); filePath != "" {
		k.Set("logging.file_path", filePath)
	}

	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
