package container

import (
	"fmt"
	"reflect"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// BindingKind discriminates the two binding variants.
type BindingKind int

const (
	// ClassBinding builds Target once and shares the instance.
	ClassBinding BindingKind = iota
	// ConstantBinding always yields Value.
	ConstantBinding
)

func (k BindingKind) String() string {
	switch k {
	case ClassBinding:
		return "class"
	case ConstantBinding:
		return "constant"
	default:
		return fmt.Sprintf("BindingKind(%d)", int(k))
	}
}

// Binding is a single resolution rule: "when Parent is requested (optionally
// only by Constraint), answer with Target or Value".
//
// Bindings are created through NewClassBinding / NewConstantBinding or the
// module DSL; the zero value is not usable.
type Binding struct {
	Kind BindingKind

	// Parent is the requested type, usually an interface.
	Parent reflect.Type

	// Constraint restricts the binding to one requesting (owner) type.
	// nil means the binding applies to every requester.
	Constraint reflect.Type

	// Target is the concrete type built for class bindings.
	Target reflect.Type

	// Args maps constructor parameter names to literal values. Class only.
	Args map[string]any

	// Value is returned as-is by constant bindings.
	Value any

	lifecycle *Lifecycle
}

// NewClassBinding binds parent to the concrete target type.
func NewClassBinding(parent, target, constraint reflect.Type, args map[string]any) *Binding {
	if args == nil {
		args = map[string]any{}
	}
	return &Binding{
		Kind:       ClassBinding,
		Parent:     parent,
		Target:     target,
		Constraint: constraint,
		Args:       args,
		lifecycle:  &Lifecycle{},
	}
}

// NewConstantBinding binds parent to a precomputed value.
func NewConstantBinding(parent reflect.Type, value any, constraint reflect.Type) *Binding {
	return &Binding{
		Kind:       ConstantBinding,
		Parent:     parent,
		Value:      value,
		Constraint: constraint,
	}
}

// IsConstrained reports whether the binding only applies to one requester.
func (b *Binding) IsConstrained() bool {
	return b.Constraint != nil
}

// Matches reports whether the binding applies when requesting resolves Parent.
func (b *Binding) Matches(requesting reflect.Type) bool {
	return b.Constraint == nil || b.Constraint == requesting
}

// ExactlyMatches reports whether the binding is constrained to requesting.
func (b *Binding) ExactlyMatches(requesting reflect.Type) bool {
	return b.Constraint != nil && b.Constraint == requesting
}

// Lifecycle returns the singleton cell of a class binding, nil otherwise.
func (b *Binding) Lifecycle() *Lifecycle {
	return b.lifecycle
}

// Resolved reports whether a class binding already holds its instance.
// Constant bindings are always resolved.
func (b *Binding) Resolved() bool {
	if b.Kind == ConstantBinding {
		return true
	}
	return b.lifecycle != nil && b.lifecycle.Resolved()
}

func (b *Binding) String() string {
	var to string
	switch b.Kind {
	case ClassBinding:
		to = typeName(b.Target)
	case ConstantBinding:
		to = fmt.Sprintf("constant %T", b.Value)
	}
	if b.Constraint == nil {
		return fmt.Sprintf("%s -> %s", typeName(b.Parent), to)
	}
	return fmt.Sprintf("%s -> %s (when %s)", typeName(b.Parent), to, typeName(b.Constraint))
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeOf returns the reflect.Type of T, including interface types.
//
//	container.TypeOf[Logger]()          // the interface itself
//	container.TypeOf[*ConsoleLogger]()  // the pointer type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
