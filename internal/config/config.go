package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = "3008"
	DefaultAPITimeout = 8 * time.Second
)

type Config struct {
	Port string
	// Upstream REST API; empty means the shell runs without one
	APIBaseURL string
	APITimeout time.Duration
	// Cookie session config
	SessionSecret []byte
	CookieSecure  bool
	// Keeps session values in files here instead of in the cookie itself
	SessionDir string
	// Sites allowed to call /api with credentials; empty means any site
	// without credentials
	CORSOrigins []string
	// Local test-login config
	DevLogin bool
	JwtKey   []byte
	// CLI storage
	SQLitePath string
}

// LoadConfig loads the settings the web shell needs.
func LoadConfig() (*Config, error) {
	config, err := LoadCLIConfig()
	if err != nil {
		return nil, err
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set in .env file")
	}
	config.SessionSecret = []byte(sessionSecret)

	config.CookieSecure, err = parseBool("COOKIE_SECURE")
	if err != nil {
		return nil, err
	}

	config.SessionDir = os.Getenv("SESSION_DIR")
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.CORSOrigins = append(config.CORSOrigins, strings.TrimSuffix(origin, "/"))
		}
	}

	return config, nil
}

// LoadCLIConfig loads everything except the cookie session settings.
func LoadCLIConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}

	apiTimeout := DefaultAPITimeout
	if v := os.Getenv("API_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid API_TIMEOUT_SECONDS: %q", v)
		}
		apiTimeout = time.Duration(secs) * time.Second
	}

	devLogin, err := parseBool("DEV_LOGIN")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:       port,
		APIBaseURL: os.Getenv("API_BASE_URL"),
		APITimeout: apiTimeout,
		DevLogin:   devLogin,
	}

	if config.DevLogin {
		jwtSecret := os.Getenv("JWT_SECRET_KEY")
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET_KEY is not set in .env file")
		}
		config.JwtKey = []byte(jwtSecret)
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join("data", "balancectl.db")
	}
	config.SQLitePath = sqlitePath

	return config, nil
}

func parseBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}
