// Package config loads the server settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// devSecret signs tokens when JWT_SECRET is unset in development.
const devSecret = "dev-secret-change-me"

// Config holds every setting of the server.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string
	LogLevel   string
	Env        string

	JWTSecret string
	TokenTTL  time.Duration

	StorageBackend          string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseVAPIDKey        string

	ProductSearchURL  string
	ProductBarcodeURL string
	ProductPageSize   int
	ProductTimeout    time.Duration

	CascadeDeleteItems bool
	ScanTimeout        time.Duration
	AllowedOrigins     []string
}

// Load reads the optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, with defaults.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "./data/listas.db"),
		StaticPath: getEnv("STATIC_PATH", "../frontend/static"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Env:        getEnv("APP_ENV", "development"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StorageBackend:          strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		FirebaseVAPIDKey:        os.Getenv("FIREBASE_VAPID_KEY"),

		ProductSearchURL:  getEnv("PRODUCT_SEARCH_URL", "https://br.openfoodfacts.org/cgi/search.pl"),
		ProductBarcodeURL: getEnv("PRODUCT_BARCODE_URL", "https://world.openfoodfacts.org/api/v0/product/"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	cfg.Port = getInt("PORT", 8080, &errs)
	cfg.ProductPageSize = getInt("PRODUCT_PAGE_SIZE", 20, &errs)
	cfg.TokenTTL = getDuration("TOKEN_TTL", 24*time.Hour, &errs)
	cfg.ProductTimeout = getDuration("PRODUCT_TIMEOUT", 10*time.Second, &errs)
	cfg.ScanTimeout = getDuration("SCAN_TIMEOUT", 10*time.Second, &errs)
	cfg.CascadeDeleteItems = getBool("CASCADE_DELETE_ITEMS", false, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devSecret
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "test"
}

// PushEnabled reports whether Firebase Cloud Messaging should be used.
func (c *Config) PushEnabled() bool {
	return c.FirebaseVAPIDKey != "" && c.FirebaseProjectID != ""
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite backend"))
		}
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.ProductPageSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid PRODUCT_PAGE_SIZE %d", c.ProductPageSize))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getBool(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
