package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	LLM    LLMConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Cache  CacheConfig
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
	RunTimeoutSecs   int `mapstructure:"run_timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds settings for the model provider used by every extraction step.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	// BaseURL overrides the provider endpoint, e.g. for a proxy or a test server.
	BaseURL string `mapstructure:"base_url"`
}

// Timeout returns the per-call timeout. Zero, the default, leaves model calls
// bounded only by the caller's context.
func (c *LLMConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CacheConfig holds the Redis result cache settings.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
	Prefix   string `mapstructure:"prefix"`
}

// TTL returns the cache entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TRADEDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRADEDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tradedocs")
	v.SetDefault("db.password", "tradedocs_secret")
	v.SetDefault("db.name", "tradedocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tradedocs-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 32)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 3)
	v.SetDefault("queue.run_timeout_secs", 900)

	// LLM defaults
	v.SetDefault("llm.provider", "claude")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.default_model", "")
	v.SetDefault("llm.timeout_secs", 0)
	v.SetDefault("llm.max_tokens", 16384)
	v.SetDefault("llm.base_url", "")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl_hours", 168)
	v.SetDefault("cache.prefix", "tradedocs:result:")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "TRADEDOCS_SERVER_PORT",
		"server.read_timeout":      "TRADEDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "TRADEDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":       "TRADEDOCS_SERVER_ENVIRONMENT",
		"db.host":                  "TRADEDOCS_DB_HOST",
		"db.port":                  "TRADEDOCS_DB_PORT",
		"db.user":                  "TRADEDOCS_DB_USER",
		"db.password":              "TRADEDOCS_DB_PASSWORD",
		"db.name":                  "TRADEDOCS_DB_NAME",
		"db.sslmode":               "TRADEDOCS_DB_SSLMODE",
		"db.max_open":              "TRADEDOCS_DB_MAX_OPEN",
		"db.max_idle":              "TRADEDOCS_DB_MAX_IDLE",
		"s3.region":                "TRADEDOCS_S3_REGION",
		"s3.bucket":                "TRADEDOCS_S3_BUCKET",
		"s3.endpoint":              "TRADEDOCS_S3_ENDPOINT",
		"s3.access_key":            "TRADEDOCS_S3_ACCESS_KEY",
		"s3.secret_key":            "TRADEDOCS_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "TRADEDOCS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "TRADEDOCS_S3_PRESIGN_EXPIRY",
		"log.level":                "TRADEDOCS_LOG_LEVEL",
		"log.format":               "TRADEDOCS_LOG_FORMAT",
		"cors.allowed_origins":     "TRADEDOCS_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs": "TRADEDOCS_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":        "TRADEDOCS_QUEUE_MAX_RETRIES",
		"queue.concurrency":        "TRADEDOCS_QUEUE_CONCURRENCY",
		"queue.run_timeout_secs":   "TRADEDOCS_QUEUE_RUN_TIMEOUT_SECS",
		"llm.provider":             "TRADEDOCS_LLM_PROVIDER",
		"llm.api_key":              "TRADEDOCS_LLM_API_KEY",
		"llm.default_model":        "TRADEDOCS_LLM_DEFAULT_MODEL",
		"llm.timeout_secs":         "TRADEDOCS_LLM_TIMEOUT_SECS",
		"llm.max_tokens":           "TRADEDOCS_LLM_MAX_TOKENS",
		"llm.base_url":             "TRADEDOCS_LLM_BASE_URL",
		"cache.enabled":            "TRADEDOCS_CACHE_ENABLED",
		"cache.addr":               "TRADEDOCS_CACHE_ADDR",
		"cache.password":           "TRADEDOCS_CACHE_PASSWORD",
		"cache.db":                 "TRADEDOCS_CACHE_DB",
		"cache.ttl_hours":          "TRADEDOCS_CACHE_TTL_HOURS",
		"cache.prefix":             "TRADEDOCS_CACHE_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if TRADEDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TRADEDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
		RunTimeoutSecs:   v.GetInt("queue.run_timeout_secs"),
	}
	cfg.LLM = LLMConfig{
		Provider:     v.GetString("llm.provider"),
		APIKey:       v.GetString("llm.api_key"),
		DefaultModel: v.GetString("llm.default_model"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
		MaxTokens:    v.GetInt("llm.max_tokens"),
		BaseURL:      v.GetString("llm.base_url"),
	}
	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("cache.enabled"),
		Addr:     v.GetString("cache.addr"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTLHours: v.GetInt("cache.ttl_hours"),
		Prefix:   v.GetString("cache.prefix"),
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
