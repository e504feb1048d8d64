package container

import (
	"reflect"
)

// BindingBuilder implements the fluent binding API of a module.
//
//	b.Bind(container.TypeOf[Repo]()).
//	    To(container.TypeOf[*SqlRepo]()).
//	    When(container.TypeOf[*ReportService]())
//
//	b.Bind(container.TypeOf[*Config]()).ToConstant(cfg)
type BindingBuilder struct {
	parent     reflect.Type
	target     reflect.Type
	constraint reflect.Type
	value      any
	constant   bool
	args       map[string]any
}

// To binds the parent type to a concrete type, built once on first use.
func (b *BindingBuilder) To(target reflect.Type) *BindingBuilder {
	b.target = target
	b.constant = false
	return b
}

// ToConstant binds the parent type to a fixed value.
func (b *BindingBuilder) ToConstant(value any) *BindingBuilder {
	b.value = value
	b.constant = true
	return b
}

// When restricts the binding to constructor parameters of owner.
func (b *BindingBuilder) When(owner reflect.Type) *BindingBuilder {
	b.constraint = owner
	return b
}

// WithArg passes a literal value to the constructor parameter name of the
// bound class, bypassing binding lookup for that parameter.
func (b *BindingBuilder) WithArg(name string, value any) *BindingBuilder {
	if b.args == nil {
		b.args = make(map[string]any)
	}
	b.args[name] = value
	return b
}

// WithArgs is WithArg for several parameters.
func (b *BindingBuilder) WithArgs(args map[string]any) *BindingBuilder {
	for name, value := range args {
		b.WithArg(name, value)
	}
	return b
}

func (b *BindingBuilder) build(module string) (*Binding, error) {
	var binding *Binding
	if b.constant {
		if len(b.args) > 0 {
			return nil, invalidModule(module, "constant binding for %s cannot take constructor arguments", typeName(b.parent))
		}
		binding = NewConstantBinding(b.parent, b.value, b.constraint)
	} else {
		binding = NewClassBinding(b.parent, b.target, b.constraint, b.args)
	}

	if err := validateBinding(module, binding); err != nil {
		return nil, err
	}
	return binding, nil
}

// validateBinding checks that a binding record is complete and type-correct.
func validateBinding(module string, b *Binding) error {
	if b == nil {
		return invalidModule(module, "nil binding")
	}
	if b.Parent == nil {
		return invalidModule(module, "binding has no parent type")
	}

	switch b.Kind {
	case ClassBinding:
		if b.Target == nil {
			return invalidModule(module, "binding for %s has no target", b.Parent)
		}
		if !b.Target.AssignableTo(b.Parent) {
			return invalidModule(module, "%s is not assignable to %s", b.Target, b.Parent)
		}
		if b.lifecycle == nil {
			return invalidModule(module, "class binding for %s was not created with NewClassBinding", b.Parent)
		}

	case ConstantBinding:
		if b.Value == nil {
			if !isNillable(b.Parent) {
				return invalidModule(module, "nil constant for non-nillable %s", b.Parent)
			}
			return nil
		}
		if valueType := reflect.TypeOf(b.Value); !valueType.AssignableTo(b.Parent) {
			return invalidModule(module, "constant of type %s is not assignable to %s", valueType, b.Parent)
		}

	default:
		return invalidModule(module, "binding for %s has unknown kind %s", b.Parent, b.Kind)
	}
	return nil
}
