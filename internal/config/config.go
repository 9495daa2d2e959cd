package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Mongo
	MongoURI            string        // ex: "mongodb://localhost:27017"
	MongoDatabase       string        // database holding all portal collections
	MongoConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	MongoPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	MongoRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	MongoMaxWait        time.Duration // max wait between retries
	MongoWarnThreshold  int           // warn after this many failed attempts

	// Redis list cache (optional; empty addr disables caching)
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int
	RedisTimeout  time.Duration // dial/ping timeout for the cache client
	ListCacheTTL  time.Duration // TTL for cached list responses
}

// fileConfig mirrors the optional YAML config file. Environment variables
// always win over file values.
type fileConfig struct {
	ListenPort    string `yaml:"listen_port"`
	LogLevel      string `yaml:"log_level"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisAddr     string `yaml:"redis_addr"`
}

func Load() *Config {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	file := loadFile(getenv("PORTAL_CONFIG_FILE", ""))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PORTAL_LISTEN_PORT", fallback(file.ListenPort, ":8080")),
		ShutdownTimeout: mustDuration("PORTAL_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("PORTAL_LOG_LEVEL", fallback(file.LogLevel, "info")),
		PrettyLog: mustBool("PORTAL_PRETTY_LOG", true),

		// Mongo settings
		MongoURI:            getenv("PORTAL_MONGO_URI", file.MongoURI),
		MongoDatabase:       getenv("PORTAL_MONGO_DB", fallback(file.MongoDatabase, "stpi_portal")),
		MongoConnectTimeout: mustDuration("PORTAL_MONGO_CONNECT_TIMEOUT", 30*time.Second),
		MongoPingTimeout:    mustDuration("PORTAL_MONGO_PING_TIMEOUT", 5*time.Second),
		MongoRetryInterval:  mustDuration("PORTAL_MONGO_RETRY_INTERVAL", 2*time.Second),
		MongoMaxWait:        mustDuration("PORTAL_MONGO_MAX_WAIT", 10*time.Second),
		MongoWarnThreshold:  getenvInt("PORTAL_MONGO_WARN_THRESHOLD", 3),

		// Redis list cache
		RedisAddr:     getenv("PORTAL_REDIS_ADDR", file.RedisAddr),
		RedisUser:     getenv("PORTAL_REDIS_USERNAME", "default"),
		RedisPassword: getenv("PORTAL_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("PORTAL_REDIS_DB", 0),
		RedisTimeout:  mustDuration("PORTAL_REDIS_TIMEOUT", 3*time.Second),
		ListCacheTTL:  mustDuration("PORTAL_LIST_CACHE_TTL", 5*time.Minute),
	}

	if cfg.MongoURI == "" {
		panic("❌ FATAL: PORTAL_MONGO_URI is not set (env or config file)")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.MongoURI = "***REDACTED***"
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadFile reads the optional YAML config file. A missing path returns zero
// values; an unreadable or malformed file is fatal so a typo never silently
// falls back to defaults.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot parse config file %s: %v", path, err))
	}
	return fc
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
