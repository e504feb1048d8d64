package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-putty/framework/config"
	"github.com/km-arc/go-putty/framework/container"
	"github.com/km-arc/go-putty/framework/logging"
	"github.com/km-arc/go-putty/framework/providers"
	"github.com/km-arc/go-putty/framework/routing"
)

func newContainer(t *testing.T, cfg *config.Config, logger *logging.Logger) *container.Container {
	t.Helper()
	c, err := container.NewFromModules(
		providers.Framework(cfg, logger),
		container.WithIntrospector(providers.Constructors(container.NewCatalog())),
	)
	require.NoError(t, err)
	return c
}

func TestFramework_BindsConstants(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "test"}}
	logger := logging.NewLogger("test")
	c := newContainer(t, cfg, logger)

	gotCfg, err := container.Resolve[*config.Config](c)
	require.NoError(t, err)
	assert.Same(t, cfg, gotCfg)

	gotLogger, err := container.Resolve[*logging.Logger](c)
	require.NoError(t, err)
	assert.Same(t, logger, gotLogger)
}

func TestFramework_RouterIsSingleton(t *testing.T) {
	c := newContainer(t, &config.Config{}, logging.NewLogger("test"))

	first, err := container.Resolve[*routing.Router](c)
	require.NoError(t, err)
	second, err := container.Resolve[*routing.Router](c)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotNil(t, first.Handler())
}

func TestFramework_ConstructorReceivesFrameworkTypes(t *testing.T) {
	type service struct {
		Config *config.Config
		Logger *logging.Logger
		Router *routing.Router
	}

	cfg := &config.Config{}
	c := newContainer(t, cfg, logging.NewLogger("test"))

	svc, err := container.Resolve[*service](c)
	require.NoError(t, err)
	assert.Same(t, cfg, svc.Config)
	assert.NotNil(t, svc.Logger)
	assert.Same(t, container.MustResolve[*routing.Router](c), svc.Router)
}

func TestModules_AreIndependentPerContainer(t *testing.T) {
	first := newContainer(t, &config.Config{}, logging.NewLogger("a"))
	second := newContainer(t, &config.Config{}, logging.NewLogger("b"))

	assert.NotSame(t,
		container.MustResolve[*routing.Router](first),
		container.MustResolve[*routing.Router](second))
}
