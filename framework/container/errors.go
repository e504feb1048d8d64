package container

import (
	"fmt"
	"reflect"

	"github.com/go-errors/errors"
)

// AmbiguousBindingError is returned at registration time when a binding would
// make the match for a parent type ambiguous.
type AmbiguousBindingError struct {
	Parent     reflect.Type
	Constraint reflect.Type
}

func (e *AmbiguousBindingError) Error() string {
	if e.Constraint == nil {
		return fmt.Sprintf("container: multiple unconstrained bindings to type: %s", typeName(e.Parent))
	}
	return fmt.Sprintf("container: multiple bindings to type %s constrained to %s",
		typeName(e.Parent), typeName(e.Constraint))
}

// UnresolveableClassError is returned when a type or one of its constructor
// parameters cannot be satisfied.
type UnresolveableClassError struct {
	Type   reflect.Type
	Reason string
	Cause  error
}

func (e *UnresolveableClassError) Error() string {
	msg := fmt.Sprintf("container: unresolveable class %s", typeName(e.Type))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnresolveableClassError) Unwrap() error { return e.Cause }

// InvalidModuleError is returned when a module does not produce a usable
// set of bindings.
type InvalidModuleError struct {
	Module string
	Reason string
}

func (e *InvalidModuleError) Error() string {
	if e.Module == "" {
		return "container: invalid module: " + e.Reason
	}
	return fmt.Sprintf("container: invalid module %q: %s", e.Module, e.Reason)
}

// The constructors below attach a stack trace pointing at the caller.

func ambiguous(parent, constraint reflect.Type) error {
	return errors.Wrap(&AmbiguousBindingError{Parent: parent, Constraint: constraint}, 1)
}

func unresolveable(t reflect.Type, cause error, format string, args ...any) error {
	return errors.Wrap(&UnresolveableClassError{
		Type:   t,
		Reason: fmt.Sprintf(format, args...),
		Cause:  cause,
	}, 1)
}

func invalidModule(module, format string, args ...any) error {
	return errors.Wrap(&InvalidModuleError{Module: module, Reason: fmt.Sprintf(format, args...)}, 1)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}
