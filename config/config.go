package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	SerpAPI   SerpAPIConfig
	Gemini    GeminiConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SerpAPIConfig holds search provider configuration
type SerpAPIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds language model configuration
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	Store    string `mapstructure:"store"` // "memory" or "redis"
	RedisURL string `mapstructure:"redis_url"`
	PerIP    int    `mapstructure:"per_ip"` // requests per minute
	Burst    int    `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/zuno/")

	// Environment variable settings: server.port -> ZUNO_SERVER_PORT
	v.SetEnvPrefix("ZUNO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory when one exists.
// Variables already set in the environment are left untouched.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// bindEnv registers keys without defaults, plus the legacy unprefixed
// variable names for the API keys and Redis URL
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"serpapi.api_key":     {"ZUNO_SERPAPI_API_KEY", "SERPAPI_API_KEY"},
		"gemini.api_key":      {"ZUNO_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"ratelimit.redis_url": {"ZUNO_RATELIMIT_REDIS_URL", "REDIS_URL"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})
	v.SetDefault("server.request_timeout", "60s")

	// SerpAPI defaults
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.requests_per_second", 5.0)
	v.SetDefault("serpapi.burst", 10)
	v.SetDefault("serpapi.timeout", "30s")

	// Gemini defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.timeout", "60s")

	// Rate limit defaults
	v.SetDefault("ratelimit.store", "memory")
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpAPI key is required (set ZUNO_SERPAPI_API_KEY)")
	}
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set ZUNO_GEMINI_API_KEY)")
	}
	if config.RateLimit.Store != "memory" && config.RateLimit.Store != "redis" {
		return fmt.Errorf("rate limit store must be 'memory' or 'redis', got: %s", config.RateLimit.Store)
	}
	if config.RateLimit.Store == "redis" && config.RateLimit.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when rate limit store is 'redis'")
	}
	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("rate limit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}
	if config.Log.Format != "" && config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}
	return nil
}
