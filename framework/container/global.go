package container

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Definition describes an application container: the modules it is built
// from. Each Definition type gets one process-wide container via Instance.
//
//	type AppContainer struct{}
//
//	func (AppContainer) RegisterModules() []container.Module {
//	    return []container.Module{LoggingModule, RepoModule}
//	}
//
//	c, err := container.Instance[AppContainer]()
type Definition interface {
	RegisterModules() []Module
}

// IntrospectorProvider is implemented by definitions that construct types
// through their own TypeIntrospector instead of an empty Catalog.
type IntrospectorProvider interface {
	Introspector() TypeIntrospector
}

type instanceEntry struct {
	mu        sync.Mutex
	container atomic.Pointer[Container]
}

// definition type → *instanceEntry
var instances sync.Map

// Instance returns the container of definition D, creating it on first
// access. The container lives until the process exits. A failed creation is
// not remembered; the next call tries again.
func Instance[D Definition]() (*Container, error) {
	definitionType := TypeOf[D]()
	value, _ := instances.LoadOrStore(definitionType, &instanceEntry{})
	entry := value.(*instanceEntry)

	if c := entry.container.Load(); c != nil {
		return c, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if c := entry.container.Load(); c != nil {
		return c, nil
	}

	c, err := build(newDefinition[D](definitionType))
	if err != nil {
		return nil, err
	}
	entry.container.Store(c)
	return c, nil
}

// MustInstance is like Instance but panics on failure.
func MustInstance[D Definition]() *Container {
	c, err := Instance[D]()
	if err != nil {
		panic(err)
	}
	return c
}

func newDefinition[D Definition](definitionType reflect.Type) D {
	if definitionType.Kind() == reflect.Pointer {
		return reflect.New(definitionType.Elem()).Interface().(D)
	}
	var definition D
	return definition
}

func build(definition Definition) (*Container, error) {
	var opts []Option
	if provider, ok := definition.(IntrospectorProvider); ok {
		opts = append(opts, WithIntrospector(provider.Introspector()))
	}
	return NewFromModules(definition.RegisterModules(), opts...)
}
