package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-putty/framework/container"
)

func TestNewModule_BuildsBindings(t *testing.T) {
	cfg := &Named{Name: "app"}
	m := container.NewModule("app", func(b *container.Binder) {
		container.BindType[Logger](b).To(consoleLoggerType)
		container.BindType[Repo](b).To(sqlRepoType).When(reportServiceType)
		container.BindType[Mailer](b).To(smtpMailerType).WithArgs(map[string]any{"timeout": 30})
		container.BindType[*Named](b).ToConstant(cfg)
	})

	assert.Equal(t, "app", m.Name())

	bindings, err := m.Bindings()
	require.NoError(t, err)
	require.Len(t, bindings, 4)

	assert.Equal(t, container.ClassBinding, bindings[0].Kind)
	assert.Equal(t, consoleLoggerType, bindings[0].Target)
	assert.False(t, bindings[0].IsConstrained())

	assert.Equal(t, reportServiceType, bindings[1].Constraint)
	assert.True(t, bindings[1].ExactlyMatches(reportServiceType))

	assert.Equal(t, map[string]any{"timeout": 30}, bindings[2].Args)

	assert.Equal(t, container.ConstantBinding, bindings[3].Kind)
	assert.Same(t, cfg, bindings[3].Value)
	assert.True(t, bindings[3].Resolved())
}

func TestNewModule_FreshBindingsPerCall(t *testing.T) {
	m := container.NewModule("logging", func(b *container.Binder) {
		container.BindType[Logger](b).To(consoleLoggerType)
	})

	first, err := container.NewFromModules([]container.Module{m})
	require.NoError(t, err)
	second, err := container.NewFromModules([]container.Module{m})
	require.NoError(t, err)

	a, err := container.Resolve[Logger](first)
	require.NoError(t, err)
	b, err := container.Resolve[Logger](second)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestNewModule_InvalidBindings(t *testing.T) {
	tests := []struct {
		name   string
		define func(b *container.Binder)
	}{
		{"missing target", func(b *container.Binder) {
			container.BindType[Logger](b)
		}},
		{"target not assignable", func(b *container.Binder) {
			container.BindType[Logger](b).To(sqlRepoType)
		}},
		{"constant not assignable", func(b *container.Binder) {
			container.BindType[Logger](b).ToConstant(&SqlRepo{})
		}},
		{"nil constant for scalar", func(b *container.Binder) {
			container.BindType[int](b).ToConstant(nil)
		}},
		{"constant with args", func(b *container.Binder) {
			container.BindType[Logger](b).ToConstant(&ConsoleLogger{}).WithArg("id", 1)
		}},
		{"nil parent", func(b *container.Binder) {
			b.Bind(nil).To(consoleLoggerType)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := container.NewModule("broken", tt.define).Bindings()

			var invalid *container.InvalidModuleError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "broken", invalid.Module)
		})
	}
}

func TestNewModule_NilDeclaration(t *testing.T) {
	_, err := container.NewModule("empty", nil).Bindings()

	var invalid *container.InvalidModuleError
	assert.ErrorAs(t, err, &invalid)
}

func TestNewModule_NilConstantForInterface(t *testing.T) {
	bindings, err := container.NewModule("nil", func(b *container.Binder) {
		container.BindType[Logger](b).ToConstant(nil)
	}).Bindings()
	require.NoError(t, err)

	c, err := container.New(bindings)
	require.NoError(t, err)

	logger, err := container.Resolve[Logger](c)
	require.NoError(t, err)
	assert.Nil(t, logger)
}

func TestNewFromModules_NilModule(t *testing.T) {
	var nilModule *struct{ container.Module }

	for name, modules := range map[string][]container.Module{
		"untyped nil": {nil},
		"typed nil":   {nilModule},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := container.NewFromModules(modules)

			var invalid *container.InvalidModuleError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestNewFromModules_AmbiguityAcrossModules(t *testing.T) {
	console := container.NewModule("console", func(b *container.Binder) {
		container.BindType[Logger](b).To(consoleLoggerType)
	})
	file := container.NewModule("file", func(b *container.Binder) {
		container.BindType[Logger](b).To(fileLoggerType)
	})

	_, err := container.NewFromModules([]container.Module{console, file})

	var ambiguous *container.AmbiguousBindingError
	assert.ErrorAs(t, err, &ambiguous)
}
