// Package server initializes and runs the StudyLink application server:
// database pool, migrations, optional S3 and Redis backends, services, the
// HTTP API, and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"studylink/internal/logging"
	"studylink/internal/server/cache"
	"studylink/internal/server/config"
	"studylink/internal/server/httpapi"
	"studylink/internal/server/repositories/repomanager"
	"studylink/internal/server/services"
	"studylink/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

// NewApp wires the whole server: opens the database, runs migrations, picks
// the blob backend and cache, and builds the router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var store storage.ObjectStore
	if cfg.BlobBackend == config.BlobBackendS3 {
		s3store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		store = s3store
		logger.Info(ctx, "blob backend: s3", "bucket", cfg.S3Bucket)
	} else {
		logger.Info(ctx, "blob backend: postgres")
	}

	var catalogCache cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedisStore(cfg.RedisAddr)
		logger.Info(ctx, "class catalog cache enabled", "addr", cfg.RedisAddr)
	}

	svc := httpapi.Services{
		Users:     services.NewUserService(db, rm, store, logger, cfg),
		Files:     services.NewFileService(db, rm, store, logger, cfg),
		Bookmarks: services.NewBookmarkService(db, rm),
		Classes:   services.NewClassService(db, rm, catalogCache, logger),
	}

	httpapi.RegisterValidators()
	router := httpapi.NewRouter(cfg, logger, db, svc)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: &http.Server{Addr: cfg.EndpointAddr, Handler: router},
	}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}
	return nil
}
