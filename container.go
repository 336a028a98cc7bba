package ioc

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/centraunit/ioc/props"
)

// State is the lifecycle state of a Container.
type State int32

const (
	// StateUnconfigured accepts registrations. A closed container returns here.
	StateUnconfigured State = iota
	// StateInitializing is entered by Init. Lookups are already legal so that
	// builders and initializers can reach realized providers.
	StateInitializing
	// StateInitialized serves lookups until Close.
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// dependencyEdge means provider is realized before dependant.
type dependencyEdge struct {
	provider  string
	dependant string
}

// Container registers component definitions and their dependency edges,
// realizes them in dependency order and tears them down on Close.
//
// Registration is not synchronized and is expected to happen on one
// goroutine. Lookups are safe for concurrent use once Init has started.
type Container struct {
	id      string
	logger  *slog.Logger
	source  props.Source
	signals []os.Signal

	// mu is the exclusive section shared by Init, Close and the shutdown hook.
	mu    sync.Mutex
	state atomic.Int32

	// defsMu guards everything Close clears, against concurrent lookups.
	defsMu       sync.RWMutex
	defs         map[string]*definition
	registered   []string
	edges        []dependencyEdge
	initializers []func() error
	destructors  []func() error
	properties   map[string]string
	initOrder    []string

	resolver *resolver
	hook     *shutdownHook
	onSignal func(os.Signal)
}

// New creates an empty Container in StateUnconfigured.
func New(opts ...Option) *Container {
	c := &Container{
		id:         uuid.NewString(),
		logger:     slog.New(slog.DiscardHandler),
		signals:    []os.Signal{os.Interrupt, syscall.SIGTERM},
		defs:       make(map[string]*definition, 32),
		properties: make(map[string]string),
		resolver:   newResolver(),
		onSignal:   reraise,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("container", c.id)
	return c
}

// State returns the current lifecycle state.
func (c *Container) State() State {
	return State(c.state.Load())
}

// InitOrder returns the order computed by the last successful planning step
// of Init. It is empty before Init and after Close.
func (c *Container) InitOrder() []string {
	c.defsMu.RLock()
	defer c.defsMu.RUnlock()
	return append([]string(nil), c.initOrder...)
}

// AddSingleton registers an eager singleton, realized during Init.
func (c *Container) AddSingleton(id string, builder Builder) error {
	return c.register("AddSingleton", id, PolicySingleton, false, builder)
}

// AddLazySingleton registers a singleton realized on its first lookup.
func (c *Container) AddLazySingleton(id string, builder Builder) error {
	return c.register("AddLazySingleton", id, PolicySingleton, true, builder)
}

// AddPrototype registers a definition whose builder runs on every lookup.
func (c *Container) AddPrototype(id string, builder Builder) error {
	return c.register("AddPrototype", id, PolicyPrototype, false, builder)
}

// AddThreadLocal registers a definition with one instance per goroutine.
func (c *Container) AddThreadLocal(id string, builder Builder) error {
	return c.register("AddThreadLocal", id, PolicyThreadLocal, false, builder)
}

// register stores a definition. Re-registering an id replaces the previous
// definition and keeps its registration position.
func (c *Container) register(op, id string, policy Policy, lazy bool, builder Builder) error {
	if err := c.requireUnconfigured(op); err != nil {
		return err
	}
	if builder == nil {
		return &NilBuilderError{ID: id}
	}

	c.defsMu.Lock()
	defer c.defsMu.Unlock()

	if _, exists := c.defs[id]; !exists {
		c.registered = append(c.registered, id)
	}
	c.defs[id] = newDefinition(id, policy, lazy, builder)
	c.logger.Debug("definition registered", "id", id, "policy", policy, "lazy", lazy)
	return nil
}

// AddSingletonDependency declares that dependant needs provider realized
// first. Both must be singletons by the time Init runs.
func (c *Container) AddSingletonDependency(dependant, provider string) error {
	if err := c.requireUnconfigured("AddSingletonDependency"); err != nil {
		return err
	}
	if dependant == provider {
		return &ConfigurationError{Dependant: dependant, Provider: provider, Reason: "component cannot depend on itself"}
	}

	c.defsMu.Lock()
	c.edges = append(c.edges, dependencyEdge{provider: provider, dependant: dependant})
	c.defsMu.Unlock()
	return nil
}

// AddInitializer registers fn to run at the end of Init, after eager
// singletons are realized. Initializers run in registration order.
func (c *Container) AddInitializer(fn func() error) error {
	if err := c.requireUnconfigured("AddInitializer"); err != nil {
		return err
	}
	c.defsMu.Lock()
	c.initializers = append(c.initializers, fn)
	c.defsMu.Unlock()
	return nil
}

// AddDestructor registers fn to run during Close. Destructors run in
// registration order; their errors and panics are discarded.
func (c *Container) AddDestructor(fn func() error) error {
	if err := c.requireUnconfigured("AddDestructor"); err != nil {
		return err
	}
	c.defsMu.Lock()
	c.destructors = append(c.destructors, fn)
	c.defsMu.Unlock()
	return nil
}

// Init validates the dependency edges, rejects cycles, realizes eager
// singletons in dependency order and runs the initializers.
//
// A failed Init is not rolled back. The container stays in
// StateInitializing and must be discarded.
func (c *Container) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.State(); s != StateUnconfigured {
		return &StateError{Op: "Init", State: s}
	}
	c.state.Store(int32(StateInitializing))
	start := time.Now()

	if err := c.validateEdges(); err != nil {
		return err
	}

	graph := buildGraph(c.edges)
	if cycles := findCycles(graph); len(cycles) > 0 {
		return &CycleError{Cycles: cycles}
	}

	order := planInitOrder(graph, c.registered)
	c.defsMu.Lock()
	c.initOrder = order
	c.defsMu.Unlock()
	c.logger.Debug("init order planned", "order", order)

	for _, id := range order {
		d := c.defs[id]
		if !d.eager() {
			continue
		}
		begin := time.Now()
		if _, err := d.realize(c.resolver); err != nil {
			return err
		}
		c.logger.Debug("singleton realized", "id", id, "duration", time.Since(begin))
	}

	for i, fn := range c.initializers {
		if err := runHook(fn); err != nil {
			return &InitializationError{Err: err}
		}
		c.logger.Debug("initializer completed", "index", i)
	}

	c.state.Store(int32(StateInitialized))
	c.logger.Info("container initialized", "definitions", len(order), "duration", time.Since(start))
	return nil
}

// validateEdges checks that every id named by an edge is a singleton.
func (c *Container) validateEdges() error {
	for _, e := range c.edges {
		for _, id := range []string{e.provider, e.dependant} {
			d, ok := c.defs[id]
			if !ok {
				return &ConfigurationError{Dependant: e.dependant, Provider: e.provider, Reason: id + " is not registered"}
			}
			if d.policy != PolicySingleton {
				return &ConfigurationError{Dependant: e.dependant, Provider: e.provider, Reason: id + " is a " + d.policy.String() + ", not a singleton"}
			}
		}
	}
	return nil
}

// Close runs the destructors, removes the shutdown hook and discards all
// registration data and instances. The container returns to
// StateUnconfigured and can be configured again.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.State(); s != StateInitialized {
		return &StateError{Op: "Close", State: s}
	}
	c.close()
	return nil
}

// close must be called with mu held and the container initialized.
func (c *Container) close() {
	for i, fn := range c.destructors {
		if err := runHook(fn); err != nil {
			c.logger.Debug("destructor failed", "index", i, "error", err)
		}
	}

	if c.hook != nil {
		c.hook.stop()
		c.hook = nil
	}

	c.defsMu.Lock()
	c.defs = make(map[string]*definition, 32)
	c.registered = nil
	c.edges = nil
	c.initializers = nil
	c.destructors = nil
	c.properties = make(map[string]string)
	c.initOrder = nil
	c.defsMu.Unlock()

	c.state.Store(int32(StateUnconfigured))
	c.logger.Info("container closed")
}

// GetInstance returns the instance for id according to its policy.
// It fails with a LookupError if id is not registered.
func (c *Container) GetInstance(id string) (any, error) {
	d, err := c.lookup("GetInstance", id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &LookupError{ID: id}
	}
	return d.realize(c.resolver)
}

// GetInstanceOrNil is like GetInstance but returns (nil, nil) for an id
// that is not registered.
func (c *Container) GetInstanceOrNil(id string) (any, error) {
	d, err := c.lookup("GetInstanceOrNil", id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.realize(c.resolver)
}

func (c *Container) lookup(op, id string) (*definition, error) {
	if s := c.State(); s == StateUnconfigured {
		return nil, &StateError{Op: op, State: s}
	}
	c.defsMu.RLock()
	d := c.defs[id]
	c.defsMu.RUnlock()
	return d, nil
}

// ReleaseThreadLocals drops the calling goroutine's thread-local instances.
// Cells are otherwise kept until Close, so goroutines that come and go should
// call this before they return.
func (c *Container) ReleaseThreadLocals() {
	gid := goid()
	c.defsMu.RLock()
	defer c.defsMu.RUnlock()
	for _, d := range c.defs {
		d.release(gid)
	}
}

// SetProperty sets a property override. Overrides shadow the property source
// and are discarded by Close.
func (c *Container) SetProperty(name, value string) error {
	if err := c.requireUnconfigured("SetProperty"); err != nil {
		return err
	}
	c.defsMu.Lock()
	c.properties[name] = value
	c.defsMu.Unlock()
	return nil
}

// LookupProperty returns the property and whether it is set.
func (c *Container) LookupProperty(name string) (string, bool) {
	c.defsMu.RLock()
	v, ok := c.properties[name]
	c.defsMu.RUnlock()
	if ok {
		return v, true
	}
	if c.source != nil {
		return c.source.Lookup(name)
	}
	return "", false
}

// GetProperty returns the property or a PropertyNotFoundError.
func (c *Container) GetProperty(name string) (string, error) {
	if v, ok := c.LookupProperty(name); ok {
		return v, nil
	}
	return "", &PropertyNotFoundError{Name: name}
}

// GetPropertyOr returns the property, or def if it is not set.
func (c *Container) GetPropertyOr(name, def string) string {
	if v, ok := c.LookupProperty(name); ok {
		return v
	}
	return def
}

func (c *Container) requireUnconfigured(op string) error {
	if s := c.State(); s != StateUnconfigured {
		return &StateError{Op: op, State: s}
	}
	return nil
}

// runHook runs an initializer or destructor, recovering a panic as an error.
func runHook(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec}
		}
	}()
	return fn()
}
