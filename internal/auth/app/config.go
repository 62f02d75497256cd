package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names an optional YAML file read before the environment.
// Environment variables always win over values from the file.
const ConfigFileEnv = "AUTHSTATE_CONFIG"

type Config struct {
	Issuer         string        `yaml:"issuer"`         // Issuer claim for tokens (default: https://authstate.local/)
	Audience       string        `yaml:"audience"`       // Audience claim for tokens (default: same as issuer)
	SigningKey     string        `yaml:"-"`              // Raw HMAC secret, environment only
	SigningKeyFile string        `yaml:"signingKeyFile"` // Path to a file holding the HMAC secret
	TokenTTL       time.Duration `yaml:"tokenTTL"`       // Token lifetime (default: 45m)
	ClockSkew      time.Duration `yaml:"clockSkew"`      // Tolerated clock skew on validation (default: 5s)

	Provider     string `yaml:"provider"`     // Role provider: policy or sqlite (default: policy)
	DatabaseFile string `yaml:"databaseFile"` // SQLite file for the sqlite provider (default: ./auth.db)
	PepperFile   string `yaml:"pepperFile"`   // Pepper for password hashing (default: ./pepper)

	SessionStore  string `yaml:"sessionStore"`  // Durable session store: memory or redis (default: memory)
	RedisAddr     string `yaml:"redisAddr"`     // Redis address (default: localhost:6379)
	RedisPassword string `yaml:"-"`             // Redis password, environment only
	RedisDB       int    `yaml:"redisDB"`       // Redis database number (default: 0)

	SessionIdleTimeout   time.Duration `yaml:"sessionIdleTimeout"`   // Idle connections are dropped after this (default: 45m)
	HousekeepingInterval time.Duration `yaml:"housekeepingInterval"` // How often idle connections are swept (default: 1m)

	Env                 string        `yaml:"env"`                 // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `yaml:"logLevel"`            // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `yaml:"logFormat"`           // Log format (json, text) (default: json)
	Port                int           `yaml:"port"`                // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `yaml:"shutdownGracePeriod"` // Graceful shutdown timeout (default: 10s)
}

// DefaultConfig is the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Issuer:               "https://authstate.local/",
		TokenTTL:             45 * time.Minute,
		ClockSkew:            5 * time.Second,
		Provider:             "policy",
		DatabaseFile:         "auth.db",
		PepperFile:           "pepper",
		SessionStore:         "memory",
		RedisAddr:            "localhost:6379",
		SessionIdleTimeout:   45 * time.Minute,
		HousekeepingInterval: time.Minute,
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by AUTHSTATE_CONFIG, then the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Issuer = getEnvOrDefault("AUTH_ISSUER", cfg.Issuer)
	cfg.Audience = getEnvOrDefault("AUTH_AUDIENCE", cfg.Audience)
	cfg.SigningKey = os.Getenv("AUTH_SIGNING_KEY")
	cfg.SigningKeyFile = getEnvOrDefault("AUTH_SIGNING_KEY_FILE", cfg.SigningKeyFile)
	cfg.TokenTTL = getEnvDurationOrDefault("AUTH_TOKEN_TTL", cfg.TokenTTL)
	cfg.ClockSkew = getEnvDurationOrDefault("AUTH_CLOCK_SKEW", cfg.ClockSkew)

	cfg.Provider = getEnvOrDefault("AUTH_PROVIDER", cfg.Provider)
	cfg.DatabaseFile = getEnvOrDefault("AUTH_DATABASE_FILE", cfg.DatabaseFile)
	cfg.PepperFile = getEnvOrDefault("AUTH_PEPPER_FILE", cfg.PepperFile)

	cfg.SessionStore = getEnvOrDefault("SESSION_STORE", cfg.SessionStore)
	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntOrDefault("REDIS_DB", cfg.RedisDB)

	cfg.SessionIdleTimeout = getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	if cfg.Audience == "" {
		cfg.Audience = cfg.Issuer
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
