package container

import (
	"sync"
	"sync/atomic"
)

// Lifecycle is the singleton cell of a class binding. It moves from
// unresolved to resolved exactly once; the resolved instance is shared by
// every later resolution of the owning binding.
type Lifecycle struct {
	mu       sync.Mutex
	resolved atomic.Bool
	instance any
}

// Resolved reports whether the cell holds an instance.
func (l *Lifecycle) Resolved() bool {
	return l.resolved.Load()
}

// Instance returns the held instance, or nil while unresolved.
func (l *Lifecycle) Instance() any {
	if !l.resolved.Load() {
		return nil
	}
	return l.instance
}

// Resolve returns the cached instance, or runs build under the cell's guard
// and caches its result. Concurrent callers racing on an unresolved cell wait
// for the first build; a failed build leaves the cell unresolved. built is
// true only for the call that ran build successfully.
func (l *Lifecycle) Resolve(build func() (any, error)) (instance any, built bool, err error) {
	if l.resolved.Load() {
		return l.instance, false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have finished while we waited for the lock.
	if l.resolved.Load() {
		return l.instance, false, nil
	}

	instance, err = build()
	if err != nil {
		return nil, false, err
	}
	l.instance = instance
	l.resolved.Store(true)
	return instance, true, nil
}
