package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http": "127.0.0.1:9000",
			"storage_backend":    "postgres",
			"database_dsn":       "postgres://u:p@db:5432/portal",
			"session_backend":    "redis",
			"redis_addr":         "redis:6379",
			"redis_password":     "hunter2",
			"http_read_timeout":  "30s",
			"http_write_timeout": "45s",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, BackendPostgres, cfg.StorageBackend)
		assert.Equal(t, "postgres://u:p@db:5432/portal", cfg.DatabaseDSN)
		assert.Equal(t, SessionRedis, cfg.SessionBackend)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "hunter2", cfg.RedisPassword)
		assert.Equal(t, 30*time.Second, cfg.HTTPReadTimeout)
		assert.Equal(t, 45*time.Second, cfg.HTTPWriteTimeout)
	})

	t.Run("missing fields keep existing values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http": ":9999",
		})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
		assert.Equal(t, BackendSQLite, cfg.StorageBackend)
		assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrHTTP: "keep:1234"}
		parseJson(cfg)

		assert.Equal(t, "keep:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
		os.Args = []string{"testbin", "-config", path}

		assert.Panics(t, func() {
			parseJson(&Config{})
		})
	})
}
