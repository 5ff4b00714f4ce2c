// Package manager implements the component graph owner: construction from
// a configuration document, dependency resolution, and the single-threaded
// cooperative tick loop that drives ready/poll broadcasts.
package manager

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/events"
	"github.com/lordjaxom/schlazicontrol/internal/metrics"
	"github.com/lordjaxom/schlazicontrol/internal/monitor"
)

const defaultUpdateInterval = 40 * time.Millisecond

// Manager owns every component, the registry used to construct them, and
// the ready/poll broadcast events that drive time-aware components.
type Manager struct {
	logger         zerolog.Logger
	registry       *component.Registry
	updateInterval time.Duration
	monitor        *monitor.Bus
	metrics        *metrics.Metrics

	mu         sync.Mutex
	components map[string]component.Component
	order      []string

	ready events.Event[struct{}]
	poll  events.Event[time.Duration]

	forkRequests []component.ForkRequest

	// postCh marshals callbacks from other goroutines (timers, socket
	// I/O completions) onto the reactor goroutine, so every component
	// callback still runs without locks — the Go analogue of the
	// original's service().post().
	postCh chan func()
}

// New builds a Manager from the top-level configuration document: it reads
// updateInterval (default 40ms) and constructs every entry in the
// top-level "components" array, in order, registering each by its id.
// monitorBus and metricsCollector may both be nil, in which case
// publishing/recording is a no-op.
func New(logger zerolog.Logger, registry *component.Registry, doc config.Node, monitorBus *monitor.Bus, metricsCollector *metrics.Metrics) (*Manager, error) {
	m := &Manager{
		logger:         logger,
		registry:       registry,
		updateInterval: defaultUpdateInterval,
		monitor:        monitorBus,
		metrics:        metricsCollector,
		components:     make(map[string]component.Component),
		postCh:         make(chan func(), 256),
	}

	if doc.Has("updateInterval") {
		node, err := doc.Key("updateInterval")
		if err != nil {
			return nil, err
		}
		d, err := config.UpdateInterval(node)
		if err != nil {
			return nil, err
		}
		m.updateInterval = d
	}

	componentsNode, err := doc.Key("components")
	if err != nil {
		return nil, err
	}
	entries, err := componentsNode.Iter()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if _, err := m.construct(entry); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Ready returns the broadcast that fires once, after every top-level
// component has been constructed and before the tick loop starts.
func (m *Manager) Ready() *events.Event[struct{}] { return &m.ready }

// Poll returns the broadcast that fires on every tick with the elapsed
// duration since the previous tick.
func (m *Manager) Poll() *events.Event[time.Duration] { return &m.poll }

// Logger returns the manager's logger, for components that want a
// sub-logger via Logger().With()....
func (m *Manager) Logger() zerolog.Logger { return m.logger }

// Monitor returns the bus ready/poll events and connections/triggers
// publish to. Never nil to callers: Publish on a nil *monitor.Bus is a
// documented no-op.
func (m *Manager) Monitor() *monitor.Bus { return m.monitor }

// Metrics returns the manager's Prometheus collector set, for components
// that report connection state (mqttstd). Never nil to callers: every
// method on a nil *metrics.Metrics is a documented no-op.
func (m *Manager) Metrics() *metrics.Metrics { return m.metrics }

// Component looks up an already-constructed component by id.
func (m *Manager) Component(id string) (component.Component, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.components[id]
	return c, ok
}

// Declare registers a forked-helper request; the daemon launches it once,
// after all components have been constructed, in its own goroutine
// alongside the reactor loop. The launch is not ordered before the first
// tick.
func (m *Manager) Declare(req component.ForkRequest) {
	m.forkRequests = append(m.forkRequests, req)
}

// ForkRequests returns the requests declared via Declare, in declaration
// order.
func (m *Manager) ForkRequests() []component.ForkRequest {
	return append([]component.ForkRequest(nil), m.forkRequests...)
}

// Post marshals fn onto the reactor goroutine, to run serialized with every
// other component callback. Components that own a socket or a timer
// running on its own goroutine (MQTT, the digital-home bridge, the console
// reader) must route their callbacks through Post rather than touching
// component state directly.
func (m *Manager) Post(fn func()) {
	m.postCh <- fn
}

// Get implements component.Deps: node is either a string id reference or
// an inline component definition.
func (m *Manager) Get(requesterID string, node config.Node) (component.Component, error) {
	if config.Is[string](node) {
		id, _ := config.As[string](node)
		m.mu.Lock()
		c, ok := m.components[id]
		m.mu.Unlock()
		if !ok {
			return nil, &component.UnknownDependencyError{Requester: requesterID, ID: id}
		}
		return c, nil
	}
	return m.construct(node)
}

func (m *Manager) construct(node config.Node) (component.Component, error) {
	typeNode, err := node.Key("type")
	if err != nil {
		return nil, err
	}
	typ, err := config.As[string](typeNode)
	if err != nil {
		return nil, err
	}

	idNode, err := node.KeyOr(config.NewKey("id", ""))
	if err != nil {
		return nil, err
	}
	id, err := config.As[string](idNode)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = m.registry.GenerateID(typ)
	}

	m.mu.Lock()
	if _, exists := m.components[id]; exists {
		m.mu.Unlock()
		return nil, &component.DuplicateIDError{ID: id}
	}
	m.mu.Unlock()

	c, err := m.registry.Create(m, typ, id, node)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.components[id] = c
	m.order = append(m.order, id)
	m.mu.Unlock()
	return c, nil
}

// Run fires Ready once, then drives the tick loop until ctx is canceled or
// SIGINT/SIGTERM is received.
func (m *Manager) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m.mu.Lock()
	count := len(m.components)
	m.mu.Unlock()
	m.monitor.Publish(monitor.Event{Source: monitor.SourceManager, Kind: monitor.KindReady, Data: map[string]any{"componentCount": count}})
	m.metrics.SetComponentCount(count)
	m.ready.Fire(struct{}{})

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("shutting down")
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			m.monitor.Publish(monitor.Event{Source: monitor.SourceManager, Kind: monitor.KindPoll, Data: map[string]any{"elapsedMs": elapsed.Milliseconds()}})
			m.metrics.ObservePoll(elapsed)
			m.poll.Fire(elapsed)
		case fn := <-m.postCh:
			fn()
		}
	}
}
