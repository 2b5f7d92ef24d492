package config

import (
	"encoding/json"
	"os"

	"github.com/smsportal/portal/internal/flagx"
	"github.com/smsportal/portal/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Duration
// fields use timex.Duration so the file can say "15s" as well as raw
// nanoseconds. Values are copied into the runtime Config afterwards.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	StorageBackend   string         `json:"storage_backend"`
	SQLitePath       string         `json:"sqlite_path"`
	DatabaseDSN      string         `json:"database_dsn"`
	SessionBackend   string         `json:"session_backend"`
	RedisAddr        string         `json:"redis_addr"`
	RedisPassword    string         `json:"redis_password"`
	HTTPReadTimeout  timex.Duration `json:"http_read_timeout"`
	HTTPWriteTimeout timex.Duration `json:"http_write_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config, if
// any, onto the target Config. A missing flag means no file is loaded;
// an unreadable or invalid file panics, since starting with half a
// config is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.SQLitePath != "" {
		config.SQLitePath = c.SQLitePath
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionBackend != "" {
		config.SessionBackend = c.SessionBackend
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		config.RedisPassword = c.RedisPassword
	}
	if c.HTTPReadTimeout.Duration != 0 {
		config.HTTPReadTimeout = c.HTTPReadTimeout.Duration
	}
	if c.HTTPWriteTimeout.Duration != 0 {
		config.HTTPWriteTimeout = c.HTTPWriteTimeout.Duration
	}
}
