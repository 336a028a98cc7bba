package ioc

import (
	"sync"
	"sync/atomic"
)

// Builder constructs a component instance. It takes no arguments; builders
// that need other components look them up through the container they close
// over.
type Builder func() (any, error)

// Policy defines the lifetime and sharing behavior of a definition.
type Policy int

const (
	// PolicySingleton shares one instance for the container's lifetime.
	PolicySingleton Policy = iota
	// PolicyPrototype creates a new instance for each lookup.
	PolicyPrototype
	// PolicyThreadLocal shares one instance per calling goroutine.
	PolicyThreadLocal
)

func (p Policy) String() string {
	switch p {
	case PolicySingleton:
		return "singleton"
	case PolicyPrototype:
		return "prototype"
	case PolicyThreadLocal:
		return "thread-local"
	default:
		return "unknown"
	}
}

// definition is a registered component. Only the state field matching
// policy is set: single for singletons, locals for thread-locals.
type definition struct {
	id      string
	policy  Policy
	lazy    bool
	builder Builder

	single *singletonCell
	locals *sync.Map
}

func newDefinition(id string, policy Policy, lazy bool, b Builder) *definition {
	d := &definition{id: id, policy: policy, lazy: lazy, builder: b}
	switch policy {
	case PolicySingleton:
		d.single = newSingletonCell(id, b)
	case PolicyThreadLocal:
		d.locals = &sync.Map{}
	}
	return d
}

// eager reports whether Init must realize the definition.
func (d *definition) eager() bool {
	return d.policy == PolicySingleton && !d.lazy
}

// singletonCell memoizes the first construction, error included.
// Concurrent callers block until that construction finishes.
type singletonCell struct {
	get  func() (any, error)
	done atomic.Bool
}

func newSingletonCell(id string, b Builder) *singletonCell {
	c := &singletonCell{}
	c.get = sync.OnceValues(func() (any, error) {
		defer c.done.Store(true)
		return build(id, b)
	})
	return c
}

// localCell is owned by one goroutine and needs no locking.
type localCell struct {
	value any
	err   error
}

// realize returns the instance for the calling goroutine according to the
// definition's policy.
func (d *definition) realize(r *resolver) (any, error) {
	switch d.policy {
	case PolicySingleton:
		if d.single.done.Load() {
			return d.single.get()
		}
		leave, err := r.enter(goid(), d.id)
		if err != nil {
			return nil, err
		}
		defer leave()
		return d.single.get()

	case PolicyThreadLocal:
		gid := goid()
		if v, ok := d.locals.Load(gid); ok {
			cell := v.(*localCell)
			return cell.value, cell.err
		}
		leave, err := r.enter(gid, d.id)
		if err != nil {
			return nil, err
		}
		defer leave()
		value, err := build(d.id, d.builder)
		d.locals.Store(gid, &localCell{value: value, err: err})
		return value, err

	default:
		leave, err := r.enter(goid(), d.id)
		if err != nil {
			return nil, err
		}
		defer leave()
		return build(d.id, d.builder)
	}
}

// release drops the thread-local cell of goroutine gid.
func (d *definition) release(gid int64) {
	if d.locals != nil {
		d.locals.Delete(gid)
	}
}

// build runs b, turning a returned error or a panic into an
// InitializationError for id.
func build(id string, b Builder) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = &InitializationError{ID: id, Err: &panicError{value: rec}}
		}
	}()

	instance, err = b()
	if err != nil {
		return nil, &InitializationError{ID: id, Err: err}
	}
	return instance, nil
}
