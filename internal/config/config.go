package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is built once at startup
// and passed to the components that need it.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Cache    CacheConfig
	Dispatch DispatchConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// LogConfig controls the log file and level.
type LogConfig struct {
	File  string // log file path; empty logs to stderr only
	Level string // logrus level name
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret            string        // JWT signing secret
	TokenTTL             time.Duration // session token lifetime
	AllowLegacyPasswords bool          // accept (and rehash) plaintext passwords from old rows
}

// AdminConfig is the account seeded when no administrator exists.
type AdminConfig struct {
	Login    string
	Password string
}

// CacheConfig configures the optional Redis doctor directory cache.
type CacheConfig struct {
	RedisAddr     string // empty disables the cache
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// DispatchConfig sizes the background worker pool.
type DispatchConfig struct {
	Workers int
}

// Load loads configuration from the environment (and a .env file if present).
// JWT_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("DISPATCH_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("DISPATCH_WORKERS must be positive, got %d", workers)
	}
	tokenTTL, err := getEnvDuration("TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	legacy, err := getEnvBool("ALLOW_LEGACY_PASSWORDS", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "media/clinic.sqlite3"),
		},
		Log: LogConfig{
			File:  getEnv("LOG_FILE", "media/clinic.log"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("JWT_SECRET", defaultSecret),
			TokenTTL:             tokenTTL,
			AllowLegacyPasswords: legacy,
		},
		Admin: AdminConfig{
			Login:    getEnv("ADMIN_LOGIN", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			TTL:           cacheTTL,
		},
		Dispatch: DispatchConfig{
			Workers: workers,
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	cache := "off"
	if c.Cache.RedisAddr != "" {
		cache = c.Cache.RedisAddr
	}
	return fmt.Sprintf("Config{DB: %s, Log: %s (%s), gRPC: %s, Admin: %s, Cache: %s, Workers: %d, Auth: *** (masked) ***}",
		c.Database.Path, c.Log.File, c.Log.Level, c.GRPC.Address, c.Admin.Login, cache, c.Dispatch.Workers)
}
