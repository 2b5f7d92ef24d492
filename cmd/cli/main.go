package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/smsportal/portal/internal/auth"
	"github.com/smsportal/portal/internal/cli"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/portal/config"
	"github.com/smsportal/portal/internal/storage"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	durable, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer durable.Close()

	// Diagnostics go to stderr so the shell itself stays readable.
	logger := logging.NewJSON(os.Stderr, slog.LevelWarn)
	manager := auth.NewManager(durable, storage.NewMemoryStore(), logger)

	app := cli.NewApp(manager)
	app.Run(ctx)
}
