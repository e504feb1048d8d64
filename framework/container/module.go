package container

import (
	"reflect"
)

// ── Module ────────────────────────────────────────────────────────────────────

// Module declares a group of bindings. Bindings is called once per container
// being built and must return fresh records, so every container owns its own
// singleton instances.
type Module interface {
	Name() string
	Bindings() ([]*Binding, error)
}

// Binder collects the bindings declared inside NewModule.
type Binder struct {
	builders []*BindingBuilder
}

// Bind starts a binding for parent.
func (b *Binder) Bind(parent reflect.Type) *BindingBuilder {
	builder := &BindingBuilder{parent: parent}
	b.builders = append(b.builders, builder)
	return builder
}

// BindType starts a binding for T.
//
//	container.BindType[Logger](b).To(container.TypeOf[*ConsoleLogger]())
func BindType[T any](b *Binder) *BindingBuilder {
	return b.Bind(TypeOf[T]())
}

// NewModule creates a module from a declaration function.
//
//	var LoggingModule = container.NewModule("logging", func(b *container.Binder) {
//	    container.BindType[Logger](b).To(container.TypeOf[*ConsoleLogger]())
//	})
func NewModule(name string, define func(b *Binder)) Module {
	return &module{name: name, define: define}
}

type module struct {
	name   string
	define func(b *Binder)
}

func (m *module) Name() string { return m.name }

func (m *module) Bindings() ([]*Binding, error) {
	if m.define == nil {
		return nil, invalidModule(m.name, "no declaration function")
	}

	binder := &Binder{}
	m.define(binder)

	bindings := make([]*Binding, 0, len(binder.builders))
	for _, builder := range binder.builders {
		binding, err := builder.build(m.name)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}

func isNilModule(m Module) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
