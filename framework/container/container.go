package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/samber/lo"

	"github.com/km-arc/go-putty/framework/logging"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves types to instances using its bindings and, for
// unbound types, reflective construction through its TypeIntrospector.
//
// Bindings are fixed at construction time. Resolution is safe for
// concurrent use; every class binding is built at most once.
type Container struct {
	registry     *BindingRegistry
	introspector TypeIntrospector
	params       *ParameterResolver
	logger       *logging.Logger

	mu             sync.RWMutex
	afterResolving []func(t reflect.Type, instance any)
}

// Option configures a Container.
type Option func(c *Container)

// WithIntrospector sets the capability used to construct types. The default
// is an empty Catalog, which only builds structs from their fields.
func WithIntrospector(introspector TypeIntrospector) Option {
	return func(c *Container) {
		c.introspector = introspector
	}
}

// WithLogger replaces the default "container" logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// New creates a container from an ordered list of bindings.
//
//	c, err := container.New([]*container.Binding{
//	    container.NewClassBinding(container.TypeOf[Logger](), container.TypeOf[*ConsoleLogger](), nil, nil),
//	})
func New(bindings []*Binding, opts ...Option) (*Container, error) {
	c := &Container{
		registry:     NewBindingRegistry(),
		introspector: NewCatalog(),
		logger:       logging.NewLogger("container"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.params = &ParameterResolver{registry: c.registry, bindings: c}

	for _, b := range bindings {
		if err := validateBinding("", b); err != nil {
			return nil, err
		}
		if err := c.registry.Add(b); err != nil {
			return nil, err
		}
		c.logger.Debugf("registered binding %s", b)
	}
	return c, nil
}

// NewFromModules collects the bindings of every module, in order, and
// creates a container from them.
func NewFromModules(modules []Module, opts ...Option) (*Container, error) {
	var bindings []*Binding
	for index, module := range modules {
		if isNilModule(module) {
			return nil, invalidModule("", "module %d is nil", index)
		}
		moduleBindings, err := module.Bindings()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, moduleBindings...)
	}
	return New(bindings, opts...)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns an instance of t.
//
// A binding for t is looked up without requester context. Constant
// bindings return their value, class bindings their shared instance. When
// nothing is bound, t is constructed reflectively and the result is not
// cached.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	if t == nil {
		return nil, unresolveable(nil, nil, "no type specified")
	}

	if b := c.registry.FindBestMatch(nil, t); b != nil {
		instance, err := c.resolveBinding(nil, b)
		if err != nil {
			c.logger.Warnf("failed to resolve %s: %v", t, err)
		}
		return instance, err
	}

	instance, err := c.construct(nil, t, nil)
	if err != nil {
		c.logger.Warnf("failed to construct %s: %v", t, err)
		return nil, err
	}
	c.fireAfterResolving(t, instance)
	return instance, nil
}

// resolveBinding implements bindingResolver.
func (c *Container) resolveBinding(chain *resolution, b *Binding) (any, error) {
	switch b.Kind {
	case ConstantBinding:
		return b.Value, nil

	case ClassBinding:
		if chain.contains(b) {
			return nil, unresolveable(b.Target, nil, "circular dependency: %s", chain.path(b))
		}
		if b.lifecycle.Resolved() {
			c.logger.Tracef("reusing instance of %s", b)
			return b.lifecycle.Instance(), nil
		}
		instance, built, err := b.lifecycle.Resolve(func() (any, error) {
			return c.construct(chain.push(b), b.Target, b.Args)
		})
		if err != nil {
			return nil, err
		}
		// Callbacks run outside the cell's lock so they may resolve b again.
		if built {
			c.logger.Debugf("constructed singleton for %s", b)
			c.fireAfterResolving(b.Parent, instance)
		}
		return instance, nil

	default:
		return nil, unresolveable(b.Parent, nil, "unknown binding kind %s", b.Kind)
	}
}

// construct builds t through the introspector, resolving its constructor
// parameters with t as the requesting type.
func (c *Container) construct(chain *resolution, t reflect.Type, overrides map[string]any) (any, error) {
	if !c.introspector.Instantiable(t) {
		return nil, unresolveable(t, nil, "class must be instantiable")
	}

	ctor, err := c.introspector.Constructor(t)
	if err != nil {
		return nil, unresolveable(t, err, "")
	}

	args, err := c.params.resolveAll(chain, t, ctor.Params, overrides)
	if err != nil {
		return nil, err
	}

	instance, err := ctor.New(args)
	if err != nil {
		return nil, unresolveable(t, err, "construction failed")
	}
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Registry returns the container's bindings.
func (c *Container) Registry() *BindingRegistry {
	return c.registry
}

// Parameters returns the resolver used for constructor parameters.
func (c *Container) Parameters() *ParameterResolver {
	return c.params
}

// BindingInfo is a read-only description of a binding.
type BindingInfo struct {
	Parent     string `json:"parent"`
	Kind       string `json:"kind"`
	Target     string `json:"target,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Resolved   bool   `json:"resolved"`
}

// Bindings describes every binding in registration order.
func (c *Container) Bindings() []BindingInfo {
	return lo.Map(c.registry.Bindings(), func(b *Binding, _ int) BindingInfo {
		return describe(b)
	})
}

// Lookup finds a bound parent type by its reflect.Type string, such as
// "main.Logger" or "*db.Pool".
func (c *Container) Lookup(name string) (reflect.Type, bool) {
	b, ok := lo.Find(c.registry.Bindings(), func(b *Binding) bool {
		return b.Parent.String() == name
	})
	if !ok {
		return nil, false
	}
	return b.Parent, true
}

func describe(b *Binding) BindingInfo {
	info := BindingInfo{
		Parent:   b.Parent.String(),
		Kind:     b.Kind.String(),
		Resolved: b.Resolved(),
	}
	switch b.Kind {
	case ClassBinding:
		info.Target = b.Target.String()
	case ConstantBinding:
		info.Target = fmt.Sprintf("%T", b.Value)
	}
	if b.Constraint != nil {
		info.Constraint = b.Constraint.String()
	}
	return info
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired whenever a new instance is
// constructed: once per class binding, and on every reflective construction
// of an unbound type. Cached and constant resolutions do not fire it.
func (c *Container) AfterResolving(cb func(t reflect.Type, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(t reflect.Type, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(t, instance)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that resolves T and type-asserts the result.
//
//	logger, err := container.Resolve[Logger](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := TypeOf[T]()
	instance, err := c.Resolve(t)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, unresolveable(t, nil, "resolved to %T", instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container) T {
	typed, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return typed
}
