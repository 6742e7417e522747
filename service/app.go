package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"miniblog/app/config"
	"miniblog/app/controllers"
	"miniblog/app/logger"
	"miniblog/app/repositories"
	"miniblog/app/routes"
	"miniblog/app/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App is an assembled service: a provisioned store and the HTTP handler
// built on top of it.
type App struct {
	cfg     *config.Config
	log     logger.Logger
	store   repositories.Store
	closeFn func()
	handler http.Handler
}

// OpenStore opens the store selected by cfg.Store.Driver. A store that cannot
// be reached is reported as a provisioning failure.
func OpenStore(ctx context.Context, cfg *config.Config) (repositories.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverBadger:
		db, err := repositories.OpenBadger(cfg.Store.BadgerDir)
		if err != nil {
			return nil, nil, &repositories.ProvisioningError{Err: err}
		}
		return repositories.NewBadgerPostRepository(db), func() { _ = db.Close() }, nil
	case config.DriverPostgres, "":
		pool, err := repositories.NewPostgresPool(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, nil, &repositories.ProvisioningError{Err: err}
		}
		return repositories.NewPostgresPostRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Bootstrap opens and provisions the store, then builds the router. The
// returned App owns the store and must be closed.
func Bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	store, closeFn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, err
	}
	log.Info("Posts table ready", "driver", cfg.Store.Driver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.SetupRoutes(routes.Dependencies{
		Posts:    controllers.NewPostController(services.NewPostService(store)),
		Home:     controllers.NewHomeController(),
		Logger:   log,
		Registry: reg,
	})

	return &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		closeFn: closeFn,
		handler: handler,
	}, nil
}

// Handler returns the full HTTP handler chain.
func (a *App) Handler() http.Handler { return a.handler }

// Close releases the store.
func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
		a.closeFn = nil
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Backend is working", "addr", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
