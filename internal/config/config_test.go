package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	for _, k := range []string{"PORT", "API_BASE_URL", "API_TIMEOUT_SECONDS", "SESSION_SECRET", "DEV_LOGIN", "JWT_SECRET_KEY", "SQLITE_PATH", "COOKIE_SECURE", "SESSION_DIR", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"SESSION_SECRET": "s3cret"})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.False(t, cfg.DevLogin)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.SessionDir)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, filepath.Join("data", "balancectl.db"), cfg.SQLitePath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"SESSION_SECRET":      "s3cret",
		"PORT":                "9000",
		"API_BASE_URL":        "http://api.local",
		"API_TIMEOUT_SECONDS": "3",
		"DEV_LOGIN":           "true",
		"JWT_SECRET_KEY":      "jwt",
		"COOKIE_SECURE":       "1",
		"SESSION_DIR":         "/var/lib/balancegame/sessions",
		"CORS_ORIGINS":        "https://balance.example/, https://m.balance.example",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://api.local", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.DevLogin)
	assert.Equal(t, []byte("jwt"), cfg.JwtKey)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "/var/lib/balancegame/sessions", cfg.SessionDir)
	assert.Equal(t, []string{"https://balance.example", "https://m.balance.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing session secret": {},
		"dev login without key":  {"SESSION_SECRET": "s", "DEV_LOGIN": "true"},
		"bad timeout":            {"SESSION_SECRET": "s", "API_TIMEOUT_SECONDS": "soon"},
		"bad bool":               {"SESSION_SECRET": "s", "COOKIE_SECURE": "maybe"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			setEnv(t, env)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadCLIConfig_NoSessionSecretNeeded(t *testing.T) {
	setEnv(t, map[string]string{"SQLITE_PATH": "/tmp/x.db"})

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
}
