package container

import (
	"reflect"

	"github.com/samber/lo"
)

// BindingRegistry owns the bindings of one container, in registration order.
//
// Add is only called while the container is being initialised; after that
// the list is read without locking.
type BindingRegistry struct {
	bindings []*Binding
}

// NewBindingRegistry creates an empty registry.
func NewBindingRegistry() *BindingRegistry {
	return &BindingRegistry{}
}

// Add validates b against every stored binding (class and constant alike)
// and appends it.
//
// Two unconstrained bindings for the same parent are ambiguous, as are two
// bindings for the same parent constrained to the same requester.
// Constrained bindings never block an unconstrained one.
func (r *BindingRegistry) Add(b *Binding) error {
	clash := lo.ContainsBy(r.bindings, func(other *Binding) bool {
		return other.Parent == b.Parent && other.Constraint == b.Constraint
	})
	if clash {
		return ambiguous(b.Parent, b.Constraint)
	}
	r.bindings = append(r.bindings, b)
	return nil
}

// FindBestMatch returns the binding to use when requesting resolves parent,
// or nil when none applies.
//
// Bindings are scanned in registration order. The first binding constrained
// to requesting wins immediately; otherwise the last matching unconstrained
// binding is used.
func (r *BindingRegistry) FindBestMatch(requesting, parent reflect.Type) *Binding {
	var matched *Binding
	for _, b := range r.bindings {
		if b.Parent != parent {
			continue
		}
		if b.ExactlyMatches(requesting) {
			return b
		}
		if b.Matches(requesting) {
			matched = b
		}
	}
	return matched
}

// Bindings returns a copy of the stored bindings in registration order.
func (r *BindingRegistry) Bindings() []*Binding {
	return append([]*Binding(nil), r.bindings...)
}

// ForParent returns the bindings registered for parent, in order.
func (r *BindingRegistry) ForParent(parent reflect.Type) []*Binding {
	return lo.Filter(r.bindings, func(b *Binding, _ int) bool {
		return b.Parent == parent
	})
}

// Len returns the number of stored bindings.
func (r *BindingRegistry) Len() int {
	return len(r.bindings)
}
