// Package app wires the authd runtime: config, logging, metrics, the user
// directory backend, the session registry, and HTTP serving with graceful
// shutdown.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"authd/cmd/identity"
	authapi "authd/cmd/internal/auth/api"
	"authd/cmd/internal/auth/service"
	"authd/cmd/internal/auth/session"
	"authd/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the authd runtime: it owns the HTTP server, the session registry
// lifecycle, and (when DB-backed) the pgx pool.
type App struct {
	cfg Config
	log Logger

	pool      *pgxpool.Pool
	dbEnabled bool

	registry *session.Registry
	auth     *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
//
// With AUTHD_DATABASE_URL set, an unreachable database is a fatal boot
// error rather than a degraded start: serving logins without the user
// directory would turn every request into a 500.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	dir, pool, dbEnabled, err := newDirectory(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		closePool(pool)
		return nil, err
	}
	registry, err := session.NewRegistry(sessCfg)
	if err != nil {
		closePool(pool)
		return nil, err
	}

	hasher, err := password.FromEnv()
	if err != nil {
		closePool(pool)
		return nil, err
	}

	svc, err := service.NewService(dir, registry, hasher, 0)
	if err != nil {
		closePool(pool)
		return nil, err
	}

	auth, err := authapi.NewHandler(log, svc, authapi.LoadConfigFromEnv())
	if err != nil {
		closePool(pool)
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		pool:      pool,
		dbEnabled: dbEnabled,
		registry:  registry,
		auth:      auth,
	}, nil
}

// Run starts the session sweeper and the HTTP server, then blocks until
// context cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	go a.registry.Start(ctx)

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.pool, a.dbEnabled, a.auth)

	handler := WithRequestLogging(
		WithCORS(WithSecurityHeaders(mux), a.cfg, a.log),
		a.log,
	)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	closePool(a.pool)

	a.log.Info("server.stopped")
	return nil
}

// newDirectory decides between the Postgres-backed user directory and the
// in-memory one. In-memory mode loses users on restart; it exists for dev
// and test runs, and session state is process-lifetime either way.
func newDirectory(ctx context.Context, cfg Config, log Logger) (identity.Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_directory")
		return identity.NewMemoryStore(), nil, false, nil
	}

	pool, err := newDirectoryPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, err
	}

	dir, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, nil, false, err
	}

	log.Info("db.enabled.postgres_directory", "schema", cfg.DBSchema)
	return dir, pool, true, nil
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
