package config

import (
	"flag"
	"os"
	"time"

	"github.com/smsportal/portal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   durable storage backend: sqlite | postgres
//	-f string   sqlite database file path
//	-d string   PostgreSQL DSN
//	-s string   session backend: memory | redis
//	-r string   redis address
//	-p string   redis password
//	-t int      HTTP read timeout, seconds
//	-w int      HTTP write timeout, seconds
//
// Args are filtered through flagx.FilterArgs first so the -c/-config
// flags owned by the JSON loader do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-f", "-d", "-s", "-r", "-p", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "durable storage backend (sqlite|postgres)")
	fs.StringVar(&config.SQLitePath, "f", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionBackend, "s", config.SessionBackend, "session backend (memory|redis)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "p", config.RedisPassword, "redis password")

	readTimeout := fs.Int("t", int(config.HTTPReadTimeout.Seconds()), "http read timeout (in seconds)")
	writeTimeout := fs.Int("w", int(config.HTTPWriteTimeout.Seconds()), "http write timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.HTTPReadTimeout = time.Duration(*readTimeout) * time.Second
	config.HTTPWriteTimeout = time.Duration(*writeTimeout) * time.Second
}
