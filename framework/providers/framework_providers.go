package providers

import (
	"github.com/km-arc/go-putty/framework/config"
	"github.com/km-arc/go-putty/framework/container"
	"github.com/km-arc/go-putty/framework/logging"
	"github.com/km-arc/go-putty/framework/routing"
)

// ── ConfigModule ──────────────────────────────────────────────────────────────

// ConfigModule binds the loaded configuration.
//
// Bound types:
//   - *config.Config  → cfg (constant)
func ConfigModule(cfg *config.Config) container.Module {
	return container.NewModule("config", func(b *container.Binder) {
		container.BindType[*config.Config](b).ToConstant(cfg)
	})
}

// ── LoggingModule ─────────────────────────────────────────────────────────────

// LoggingModule binds the application logger, so constructors can take a
// *logging.Logger parameter.
//
// Bound types:
//   - *logging.Logger  → logger (constant)
func LoggingModule(logger *logging.Logger) container.Module {
	return container.NewModule("logging", func(b *container.Binder) {
		container.BindType[*logging.Logger](b).ToConstant(logger)
	})
}

// ── RoutingModule ─────────────────────────────────────────────────────────────

// RoutingModule registers the HTTP router as a singleton built by
// routing.New, which Constructors registers.
//
// Bound types:
//   - *routing.Router  → *routing.Router (class)
var RoutingModule = container.NewModule("routing", func(b *container.Binder) {
	container.BindType[*routing.Router](b).To(container.TypeOf[*routing.Router]())
})

// Constructors registers the constructors of the framework types bound by
// this package.
func Constructors(catalog *container.Catalog) *container.Catalog {
	return catalog.MustRegister(routing.New)
}

// Framework returns the framework modules in registration order.
func Framework(cfg *config.Config, logger *logging.Logger) []container.Module {
	return []container.Module{
		ConfigModule(cfg),
		LoggingModule(logger),
		RoutingModule,
	}
}
