package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

type Config struct {
	Port        string
	Host        string
	Environment string

	// Prediction endpoint
	APIBaseURL       string
	ProductionAPIURL string
	LocalAPIURL      string
	PredictTimeout   time.Duration
	QuickFloor       time.Duration
	DetailedFloor    time.Duration
	DiscardStale     bool

	// Persistent store
	StoreBackend        string
	StoreKeyPrefix      string
	StoreQuotaBytes     int
	RedisURL            string
	FirestoreProject    string
	FirestoreCollection string
	DatabaseURL         string

	// Display layer. The server holds a single page session, so it listens on
	// loopback and only the local front-end may call it.
	AllowedOrigins    []string
	AllowedImageHosts []string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Host:                getEnv("HOST", "127.0.0.1"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		APIBaseURL:          getEnv("API_BASE_URL", ""),
		ProductionAPIURL:    getEnv("PRODUCTION_API_URL", "https://end-to-end-airbnb-price-prediction.onrender.com"),
		LocalAPIURL:         getEnv("LOCAL_API_URL", "http://localhost:5000"),
		PredictTimeout:      time.Duration(getEnvAsInt("PREDICT_TIMEOUT_SECONDS", 30)) * time.Second,
		QuickFloor:          time.Duration(getEnvAsInt("QUICK_FLOOR_MS", 800)) * time.Millisecond,
		DetailedFloor:       time.Duration(getEnvAsInt("DETAILED_FLOOR_MS", 1000)) * time.Millisecond,
		DiscardStale:        getEnvAsBool("DISCARD_STALE", true),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		StoreKeyPrefix:      getEnv("STORE_KEY_PREFIX", "stayprice:"),
		StoreQuotaBytes:     getEnvAsInt("STORE_QUOTA_BYTES", 5*1024*1024),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		FirestoreProject:    getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "session_kv"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		AllowedOrigins:      getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedImageHosts:   getEnvAsList("ALLOWED_IMAGE_HOSTS", []string{"images.unsplash.com"}),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = cfg.resolveAPIBaseURL()
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveAPIBaseURL picks the production or local endpoint from the environment name
func (c *Config) resolveAPIBaseURL() string {
	if c.IsProduction() {
		return c.ProductionAPIURL
	}
	return c.LocalAPIURL
}

// Addr is the listen address of the session server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}

	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must name at least one origin")
	}
	for _, origin := range c.AllowedOrigins {
		if strings.Contains(origin, "*") {
			return fmt.Errorf("ALLOWED_ORIGINS entry %q must not be a wildcard", origin)
		}
	}

	if c.QuickFloor < 0 || c.DetailedFloor < 0 {
		return fmt.Errorf("latency floors must not be negative")
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	case BackendFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore store")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	return nil
}

// ImageHostAllowed reports whether an https image URL points at an allow-listed host
func (c *Config) ImageHostAllowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	for _, host := range c.AllowedImageHosts {
		if strings.EqualFold(u.Hostname(), host) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
