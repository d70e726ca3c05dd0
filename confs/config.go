package confs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process-wide settings read at startup.
type Config struct {
	Port string
	Env  string

	DBDriver   string // postgres | sqlite
	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	JWTSecret       string
	JWTExpire       time.Duration
	JWTCookieExpire int // days

	GithubToken    string
	GithubCacheTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string

	ResetSweepInterval time.Duration
}

// IsProduction reports whether cookies should be marked secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads environment variables from a .env file if present
// and builds the Config from them.
func LoadConfig() (Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return FromEnv()
}

// FromEnv reads the Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		Env:          getEnv("APP_ENV", "development"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBURL:        os.Getenv("DB_URL"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		SQLitePath:   getEnv("SQLITE_PATH", "devconnector.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GithubToken:  os.Getenv("GITHUB_TOKEN"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@devconnector.local"),
		FromName:     getEnv("FROM_NAME", "DevConnector"),
	}

	var err error
	if cfg.JWTExpire, err = ParseDuration(getEnv("JWT_EXPIRE", "30d")); err != nil {
		return cfg, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	if cfg.JWTCookieExpire, err = strconv.Atoi(getEnv("JWT_COOKIE_EXPIRE", "30")); err != nil {
		return cfg, fmt.Errorf("JWT_COOKIE_EXPIRE: %w", err)
	}
	if cfg.GithubCacheTTL, err = ParseDuration(getEnv("GITHUB_CACHE_TTL", "10m")); err != nil {
		return cfg, fmt.Errorf("GITHUB_CACHE_TTL: %w", err)
	}
	if cfg.ResetSweepInterval, err = ParseDuration(getEnv("RESET_SWEEP_INTERVAL", "5m")); err != nil {
		return cfg, fmt.Errorf("RESET_SWEEP_INTERVAL: %w", err)
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("missing required configuration: JWT_SECRET")
	}
	return cfg, nil
}

// ParseDuration accepts Go durations ("90m", "12h") and whole days ("30d").
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", v)
	}
	return d, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
