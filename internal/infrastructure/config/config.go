// Package config loads application configuration from a TOML file and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App   AppConfig
	Log   LogConfig
	Redis RedisConfig
	Books BooksConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig holds Redis connection settings for the read cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address for the redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BooksConfig holds connection settings for the remote accounting API.
// BaseURL and APIKey are per tenant and normally come from environment
// variables or the credential store rather than the config file.
type BooksConfig struct {
	BaseURL        string
	APIKey         string
	APIKeyHeader   string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PageSize       int
	CacheTTL       time.Duration
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with BOOKS_ prefix (e.g., BOOKS_BOOKS_API_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("BOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Books: BooksConfig{
			BaseURL:        v.GetString("books.base_url"),
			APIKey:         v.GetString("books.api_key"),
			APIKeyHeader:   v.GetString("books.api_key_header"),
			Timeout:        v.GetDuration("books.timeout"),
			MaxRetries:     v.GetInt("books.max_retries"),
			InitialBackoff: v.GetDuration("books.initial_backoff"),
			MaxBackoff:     v.GetDuration("books.max_backoff"),
			PageSize:       v.GetInt("books.page_size"),
			CacheTTL:       v.GetDuration("books.cache_ttl"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "booksync")
	v.SetDefault("app.env", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("books.api_key_header", "X-API-KEY")
	v.SetDefault("books.timeout", "30s")
	v.SetDefault("books.max_retries", 3)
	v.SetDefault("books.initial_backoff", "1s")
	v.SetDefault("books.max_backoff", "30s")
	v.SetDefault("books.page_size", 100)
	v.SetDefault("books.cache_ttl", "5m")
}
