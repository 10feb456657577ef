package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"aiqr-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port     string
	DBPath   string
	GinMode  string
	LogLevel slog.Level

	AuthorizerSecret string
	VendorSecret     string
	ConsumerSecret   string

	// AllowedContacts gates authorizer registration
	AllowedContacts []string
	BcryptCost      int
	CORSOrigin      string

	SweepInterval time.Duration
	SweepMinAge   time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads an optional .env file and then the process environment.
// A missing envFile is not an error; the environment alone may be enough.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "aiqr.db"),
		GinMode:          os.Getenv("GIN_MODE"),
		AuthorizerSecret: os.Getenv("AUTHORIZER_WEB_TOKEN"),
		VendorSecret:     os.Getenv("VENDOR_WEB_TOKEN"),
		ConsumerSecret:   os.Getenv("CONSUMER_WEB_TOKEN"),
		AllowedContacts:  splitList(os.Getenv("CONTACTS")),
		CORSOrigin:       getEnv("CORS_ORIGIN", "http://127.0.0.1:3001"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cost, err := strconv.Atoi(getEnv("SALT", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("SALT must be a bcrypt cost between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	cfg.BcryptCost = cost

	if cfg.SweepInterval, err = time.ParseDuration(getEnv("SWEEP_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("SWEEP_INTERVAL: %w", err)
	}
	if cfg.SweepMinAge, err = time.ParseDuration(getEnv("SWEEP_MIN_AGE", "10m")); err != nil {
		return nil, fmt.Errorf("SWEEP_MIN_AGE: %w", err)
	}

	if cfg.AuthorizerSecret == "" || cfg.VendorSecret == "" || cfg.ConsumerSecret == "" {
		return nil, errors.New("AUTHORIZER_WEB_TOKEN, VENDOR_WEB_TOKEN and CONSUMER_WEB_TOKEN are required")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OpenDB opens the sqlite database. A single pooled connection serializes
// writers, which sqlite needs anyway, and keeps ":memory:" databases alive.
func OpenDB(path string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every collection
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Authorizer{},
		&models.Invitation{},
		&models.Restaurant{},
		&models.Table{},
		&models.Category{},
		&models.MenuItem{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
