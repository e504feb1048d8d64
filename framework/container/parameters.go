package container

import (
	"reflect"
	"strings"
)

// bindingResolver turns a matched binding into an instance.
type bindingResolver interface {
	resolveBinding(chain *resolution, b *Binding) (any, error)
}

// ParameterResolver produces the argument list of a constructor.
type ParameterResolver struct {
	registry *BindingRegistry
	bindings bindingResolver
}

// ResolveAll resolves params of owning in declaration order.
//
// For each parameter:
//   - a value in overrides under the parameter name is used as-is;
//   - otherwise an optional parameter is skipped and contributes no entry,
//     so the constructor only sees its default if the parameter is trailing;
//   - otherwise the parameter must have a declared class type, and the
//     binding that best matches (owning, type) is resolved.
func (p *ParameterResolver) ResolveAll(owning reflect.Type, params []Parameter, overrides map[string]any) ([]any, error) {
	return p.resolveAll(nil, owning, params, overrides)
}

func (p *ParameterResolver) resolveAll(chain *resolution, owning reflect.Type, params []Parameter, overrides map[string]any) ([]any, error) {
	resolved := make([]any, 0, len(params))
	for _, param := range params {
		if value, ok := overrides[param.Name]; ok {
			resolved = append(resolved, value)
			continue
		}

		if param.Optional {
			continue
		}

		if param.Type == nil {
			return nil, unresolveable(owning, nil,
				"there is no defined parameter type or default value for constructor parameter: %s", param.Name)
		}

		binding := p.registry.FindBestMatch(owning, param.Type)
		if binding == nil {
			return nil, unresolveable(owning, nil,
				"could not find a suitable binding for constructor parameter %s: %s", param.Name, param.Type)
		}

		instance, err := p.bindings.resolveBinding(chain, binding)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, instance)
	}
	return resolved, nil
}

// ── resolution chain ──────────────────────────────────────────────────────────

// resolution is the stack of class bindings under construction on the
// current call path. nil is the empty chain.
type resolution struct {
	binding *Binding
	parent  *resolution
}

func (r *resolution) push(b *Binding) *resolution {
	return &resolution{binding: b, parent: r}
}

func (r *resolution) contains(b *Binding) bool {
	for node := r; node != nil; node = node.parent {
		if node.binding == b {
			return true
		}
	}
	return false
}

// path renders the chain root first, ending with b.
func (r *resolution) path(b *Binding) string {
	names := []string{typeName(b.Target)}
	for node := r; node != nil; node = node.parent {
		names = append(names, typeName(node.binding.Target))
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " -> ")
}
