// Package portal wires the application together: stores, the session
// and credential manager, the HTTP API, and graceful shutdown.
package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smsportal/portal/internal/auth"
	"github.com/smsportal/portal/internal/common"
	"github.com/smsportal/portal/internal/httpapi"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/portal/config"
	"github.com/smsportal/portal/internal/storage"
)

// Session blobs in redis outlive the idle timeout by a margin; the
// manager still enforces the real timeout on every read.
const redisSessionTTL = auth.IdleTimeout + 15*time.Minute

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *auth.Manager
	closers []io.Closer
}

// NewApp opens the configured stores and builds the manager. The
// returned App owns every opened resource and releases them in Run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	app := &App{config: cfg, logger: logger}

	durable, err := app.openDurable(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("durable store init error: %w", err)
	}

	session, err := app.openSession(ctx, cfg)
	if err != nil {
		app.closeAll(ctx)
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	app.manager = auth.NewManager(durable, session, logger)
	return app, nil
}

func (app *App) openDurable(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, s)
		return s, nil
	case config.BackendPostgres:
		s, err := storage.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, s)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownBackend, cfg.StorageBackend)
	}
}

func (app *App) openSession(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return storage.NewMemoryStore(), nil
	case config.SessionRedis:
		s, err := storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, "portal:", redisSessionTTL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, s)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownBackend, cfg.SessionBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) closeAll(ctx context.Context) {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error(ctx, "close error", "error", err.Error())
		}
	}
}

// Run initializes the credential store and serves the API until a
// signal or context cancellation stops it.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	defer app.closeAll(ctx)
	defer app.manager.Close()

	app.logger.Info(ctx, "starting portal",
		"storage_backend", app.config.StorageBackend,
		"session_backend", app.config.SessionBackend,
	)

	if err := app.manager.Initialize(ctx); err != nil {
		return fmt.Errorf("auth init error: %w", err)
	}

	router := httpapi.NewRouter(app.manager, app.logger)
	server := httpapi.NewServer(
		app.config.EndpointAddrHTTP,
		router,
		app.config.HTTPReadTimeout,
		app.config.HTTPWriteTimeout,
		app.logger,
	)

	return server.Run(ctx)
}
