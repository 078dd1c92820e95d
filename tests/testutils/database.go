package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"balancegame-web/db"
	"balancegame-web/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=10000")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	require.NoError(t, db.InitializeSchema(testDB))
	return testDB
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Port:          config.DefaultPort,
		APITimeout:    2 * time.Second,
		SessionSecret: []byte("test_session_secret_for_testing_"),
		DevLogin:      true,
		JwtKey:        []byte("test_jwt_secret_key_for_testing_only"),
		SQLitePath:    ":memory:",
	}
}
