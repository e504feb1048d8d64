package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gookit/slog"

	"github.com/km-arc/go-putty/framework/config"
	"github.com/km-arc/go-putty/framework/container"
	"github.com/km-arc/go-putty/framework/inspect"
	"github.com/km-arc/go-putty/framework/logging"
	"github.com/km-arc/go-putty/framework/providers"
	"github.com/km-arc/go-putty/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application bundles a container built from the framework modules and the
// application's own modules, together with the services the kernel needs.
type Application struct {
	Container *container.Container
	Config    *config.Config
	Logger    *logging.Logger
	Router    *routing.Router

	mountOnce sync.Once
}

type options struct {
	envFiles []string
	catalog  *container.Catalog
}

// Option configures New.
type Option func(o *options)

// WithEnvFiles sets the env files read by config.Load.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.envFiles = files
	}
}

// WithCatalog sets the catalog used to construct types. The framework
// constructors are registered on it.
func WithCatalog(catalog *container.Catalog) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// New loads and validates the configuration, sets up logging, and builds
// the container from the framework modules followed by modules.
//
//	application, err := app.New([]container.Module{RepoModule}, app.WithEnvFiles(".env"))
func New(modules []container.Module, opts ...Option) (*Application, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.catalog == nil {
		o.catalog = container.NewCatalog()
	}

	cfg := config.Load(o.envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(cfg.Log.Level)
	if cfg.App.Debug && logging.Level() < slog.DebugLevel {
		logging.SetLevel(slog.DebugLevel)
	}
	logger := logging.NewLogger(cfg.App.Name)

	all := append(providers.Framework(cfg, logger), modules...)
	c, err := container.NewFromModules(all, container.WithIntrospector(providers.Constructors(o.catalog)))
	if err != nil {
		return nil, err
	}

	router, err := container.Resolve[*routing.Router](c)
	if err != nil {
		return nil, err
	}

	logger.Infof("container ready with %d bindings [%s]", c.Registry().Len(), cfg.App.Env)
	return &Application{
		Container: c,
		Config:    cfg,
		Logger:    logger,
		Router:    router,
	}, nil
}

// Handler returns the router with the inspection API mounted.
func (a *Application) Handler() http.Handler {
	a.mountOnce.Do(func() {
		inspect.New(a.Container, inspect.WithToken(a.Config.Inspect.Token)).Register(a.Router)
	})
	return a.Router
}

// Run serves the inspection API on Config.Inspect.Addr until ctx is done,
// then shuts the server down gracefully. It returns at once when the API is
// disabled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Config.Inspect.Enabled {
		a.Logger.Infof("inspection API disabled")
		return nil
	}

	listener, err := net.Listen("tcp", a.Config.Inspect.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	a.Logger.Infof("inspection API listening on http://%s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Infof("shutting down inspection API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
