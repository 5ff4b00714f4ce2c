// Package component implements the component identity, registry and
// factory machinery: a category-qualified name-to-constructor table, a
// deterministic anonymous id generator, and the capability-based
// polymorphism that replaces virtual dispatch — a Component is any Go
// value that reports its Identity, and capabilities (Input, Output,
// Transition, Standalone) are plain interface type assertions against it.
package component

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/metrics"
	"github.com/lordjaxom/schlazicontrol/internal/monitor"
)

// Category is one of the four component roles.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryOutput     Category = "output"
	CategoryTransition Category = "transition"
	CategoryStandalone Category = "standalone"
)

// Identity is a component's (category, name, id) triple. name is the
// registered type tag (e.g. "gpio", "fade"); id is unique within the
// owning manager, user-specified or generated.
type Identity struct {
	Category Category
	Name     string
	ID       string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s:%s(%s)", i.Category, i.Name, i.ID)
}

// Component is the minimal shape every constructed component satisfies.
// Everything else about what a component can do is expressed as a
// capability interface (Input, Output, Transition, Standalone) that callers
// type-assert for.
type Component interface {
	Identity() Identity
}

// ForkRequest is a declaration, made during component construction, that a
// child process must be launched. The daemon runs it in its own goroutine
// alongside the reactor loop, so the launch is not ordered before the first
// tick. Only the LED driver helper makes one (see internal/ws281x); Run
// blocks until ctx is canceled, at which point it must terminate the child
// and return.
type ForkRequest struct {
	Name string
	Run  func(ctx context.Context) error
}

// Deps is what a component constructor receives from the manager that owns
// it: dependency resolution via Get, the ready/poll broadcasts, Post for
// marshaling foreign-goroutine callbacks, and Declare for the one component
// that needs a forked helper process.
type Deps interface {
	// Get resolves node as either a string id reference or an inline
	// component definition, returning the constructed/looked-up
	// Component. requesterID names the component asking, for error
	// messages.
	Get(requesterID string, node config.Node) (Component, error)

	// Ready fires once, after every top-level component has been
	// constructed and before the tick loop starts.
	Ready() *events.Event[struct{}]

	// Poll fires on every tick with the elapsed duration since the
	// previous tick. Time-driven transitions (fade, animate) and
	// trigger timers subscribe here.
	Poll() *events.Event[time.Duration]

	// Post marshals fn onto the reactor goroutine, serialized with
	// every other component callback — required for any callback
	// arriving on a non-reactor goroutine (timers, socket I/O).
	Post(fn func())

	// Declare registers a forked-helper request; the daemon launches it
	// once, after every component has been constructed, in its own
	// goroutine alongside the reactor loop.
	Declare(req ForkRequest)

	// Logger returns the root logger components derive their named
	// sub-logger from (see internal/logging.Named).
	Logger() zerolog.Logger

	// Monitor returns the bus that connections and triggers publish
	// transfer/fired events to. Never nil: Publish is a no-op on an
	// unconfigured (nil) *monitor.Bus, so callers need no guard.
	Monitor() *monitor.Bus

	// Metrics returns the Prometheus collector set standalone components
	// (currently mqttstd) report connection state to. Never nil: every
	// method is a no-op on an unconfigured (nil) *metrics.Metrics.
	Metrics() *metrics.Metrics
}

// Get resolves node via deps and asserts the result implements capability
// T, failing with WrongDependencyTypeError otherwise.
func Get[T any](deps Deps, requesterID string, node config.Node) (T, error) {
	var zero T
	c, err := deps.Get(requesterID, node)
	if err != nil {
		return zero, err
	}
	t, ok := c.(T)
	if !ok {
		return zero, &WrongDependencyTypeError{Requester: requesterID, Dependency: c.Identity().ID}
	}
	return t, nil
}

// Constructor builds one Component from its configuration. id is already
// resolved (user-specified or generated) by the time the constructor runs.
type Constructor func(deps Deps, id string, props config.Node) (Component, error)

// idGenSeed and idGenStep implement the deterministic anonymous-id sequence:
// n' = ((n - 100000 + idGenStep) mod 900000) + 100000, seeded at idGenSeed.
const (
	idGenSeed = 924536
	idGenStep = 99991
	idGenBase = 100000
	idGenMod  = 900000
)

// Registry is the global (category, name) -> Constructor table plus the
// anonymous id sequence.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Constructor
	byName    map[string][]string // bare name -> keys, for unqualified type lookups
	generated int
}

// NewRegistry builds an empty registry with the id sequence seeded per spec.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Constructor),
		byName:    make(map[string][]string),
		generated: idGenSeed,
	}
}

// Register adds one (category, name) -> Constructor entry. Registering the
// same key twice is a programming error — it panics, matching the
// original's startup-time abort on duplicate registration.
func (r *Registry) Register(category Category, name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(category) + ":" + name
	if _, exists := r.factories[key]; exists {
		panic(&DuplicateComponentError{Category: string(category), Name: name})
	}
	r.factories[key] = ctor
	r.byName[name] = append(r.byName[name], key)
}

// resolveKey splits a type reference ("name" or "category:name") into its
// registry key, inferring the category when only a bare name is given.
func (r *Registry) resolveKey(typ string) (string, error) {
	for i := 0; i < len(typ); i++ {
		if typ[i] == ':' {
			return typ, nil
		}
	}
	keys := r.byName[typ]
	switch len(keys) {
	case 0:
		return "", &UnknownTypeError{Type: typ}
	case 1:
		return keys[0], nil
	default:
		return "", &UnknownTypeError{Type: typ, Reason: "ambiguous across categories"}
	}
}

// Create constructs a component of the given type reference.
func (r *Registry) Create(deps Deps, typ, id string, props config.Node) (Component, error) {
	r.mu.Lock()
	key, err := r.resolveKey(typ)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	ctor := r.factories[key]
	r.mu.Unlock()
	if ctor == nil {
		return nil, &UnknownTypeError{Type: typ}
	}
	return ctor(deps, id, props)
}

// GenerateID returns the next deterministic anonymous id for typ, formatted
// "{typ}.{n}": the first id drawn from a fresh registry is "{typ}.924536",
// matching idGenSeed.
func (r *Registry) GenerateID(typ string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := fmt.Sprintf("%s.%d", typ, r.generated)
	r.generated = ((r.generated-idGenBase+idGenStep)%idGenMod + idGenMod) % idGenMod
	r.generated += idGenBase
	return id
}
