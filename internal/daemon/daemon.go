// Package daemon wires the component registry, the manager, and the
// operational side-channels (operational monitor, metrics, audit trail)
// into one process lifecycle, so cmd/schlazicontrol stays a thin
// flag-parsing shell.
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lordjaxom/schlazicontrol/internal/audit"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/connection"
	"github.com/lordjaxom/schlazicontrol/internal/homebridge"
	"github.com/lordjaxom/schlazicontrol/internal/input"
	"github.com/lordjaxom/schlazicontrol/internal/manager"
	"github.com/lordjaxom/schlazicontrol/internal/metrics"
	"github.com/lordjaxom/schlazicontrol/internal/monitor"
	"github.com/lordjaxom/schlazicontrol/internal/mqttstd"
	"github.com/lordjaxom/schlazicontrol/internal/output"
	"github.com/lordjaxom/schlazicontrol/internal/transition"
)

// Config is the daemon's own configuration, read from the "daemon" key of
// the component document if present; every field has a working default so
// an empty/absent "daemon" section is valid.
type Config struct {
	MetricsAddress string // default "0.0.0.0"
	MetricsPort    int    // default 9281, 0 disables the status server
	Monitor        bool   // default true: mount the operational monitor at /monitor
	AuditPath      string // default "": empty disables the audit trail
}

func defaultConfig() Config {
	return Config{MetricsAddress: "0.0.0.0", MetricsPort: 9281, Monitor: true}
}

// parseDaemonConfig reads the optional "daemon" key of doc, falling back to
// defaultConfig for any field it doesn't set.
func parseDaemonConfig(doc config.Node) (Config, error) {
	cfg := defaultConfig()
	if !doc.Has("daemon") {
		return cfg, nil
	}
	node, err := doc.Key("daemon")
	if err != nil {
		return cfg, err
	}
	if node.Has("metricsAddress") {
		n, _ := node.Key("metricsAddress")
		v, err := config.As[string](n)
		if err != nil {
			return cfg, err
		}
		cfg.MetricsAddress = v
	}
	if node.Has("metricsPort") {
		n, _ := node.Key("metricsPort")
		v, err := config.As[int](n)
		if err != nil {
			return cfg, err
		}
		cfg.MetricsPort = v
	}
	if node.Has("monitor") {
		n, _ := node.Key("monitor")
		v, err := config.As[bool](n)
		if err != nil {
			return cfg, err
		}
		cfg.Monitor = v
	}
	if node.Has("auditPath") {
		n, _ := node.Key("auditPath")
		v, err := config.As[string](n)
		if err != nil {
			return cfg, err
		}
		cfg.AuditPath = v
	}
	return cfg, nil
}

// Daemon owns one running component graph together with its operational
// side-channels. Build one with New, then call Run.
type Daemon struct {
	logger     zerolog.Logger
	instanceID string
	manager    *manager.Manager
	metrics    *metrics.Metrics
	monitor    *monitor.Bus
	audit      *audit.Store

	metricsServer *metrics.Server
}

// InstanceID returns the process-lifetime unique id generated for this
// daemon run. It is logged when the daemon is constructed and recorded as
// the detail of the audit trail's "starting" entry; MQTT client ids and the
// bridge handshake do not include it.
func (d *Daemon) InstanceID() string { return d.instanceID }

// New loads the component document at configPath and constructs the full
// registry, manager, and side-channels. It does not start anything; call
// Run to enter the reactor loop.
func New(logger zerolog.Logger, configPath string) (*Daemon, error) {
	doc, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	daemonCfg, err := parseDaemonConfig(doc)
	if err != nil {
		return nil, fmt.Errorf("daemon: parse daemon config: %w", err)
	}

	registry := component.NewRegistry()
	input.Register(registry)
	output.Register(registry)
	transition.Register(registry)
	connection.Register(registry)
	mqttstd.Register(registry)
	homebridge.Register(registry)

	monitorBus := monitor.New()
	if !daemonCfg.Monitor {
		monitorBus = nil
	}
	metricsCollector := metrics.New()

	var auditStore *audit.Store
	if daemonCfg.AuditPath != "" {
		auditStore, err = audit.Open(daemonCfg.AuditPath)
		if err != nil {
			return nil, fmt.Errorf("daemon: open audit trail: %w", err)
		}
	}

	mgr, err := manager.New(logger, registry, doc, monitorBus, metricsCollector)
	if err != nil {
		if auditStore != nil {
			auditStore.Close()
		}
		return nil, fmt.Errorf("daemon: construct component graph: %w", err)
	}

	instanceID := uuid.NewString()
	logger.Info().Str("instance", instanceID).Msg("daemon: instance id assigned")

	d := &Daemon{
		logger:     logger,
		instanceID: instanceID,
		manager:    mgr,
		metrics:    metricsCollector,
		monitor:    monitorBus,
		audit:      auditStore,
	}

	if daemonCfg.MetricsPort != 0 {
		var monitorHandler http.Handler
		if monitorBus != nil {
			monitorHandler = monitor.NewServer(monitorBus, logger)
		}
		d.metricsServer = metrics.NewServer(daemonCfg.MetricsAddress, daemonCfg.MetricsPort, metricsCollector, monitorHandler, logger)
	}

	return d, nil
}

// Run launches every declared forked helper, starts the status HTTP
// server, and drives the manager's reactor loop until ctx is canceled or a
// termination signal arrives; it returns once every goroutine it started
// has stopped.
func (d *Daemon) Run(ctx context.Context) error {
	if d.audit != nil {
		defer d.audit.Close()
		_ = d.audit.Record(ctx, audit.Entry{Source: "daemon", Kind: "starting", Detail: d.instanceID})
	}

	group, gctx := errgroup.WithContext(ctx)

	for _, req := range d.manager.ForkRequests() {
		req := req
		group.Go(func() error {
			d.logger.Info().Str("helper", req.Name).Msg("daemon: launching forked helper")
			if err := req.Run(gctx); err != nil && gctx.Err() == nil {
				return fmt.Errorf("daemon: helper %s: %w", req.Name, err)
			}
			return nil
		})
	}

	if d.metricsServer != nil {
		group.Go(func() error {
			return d.metricsServer.Start(gctx)
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return d.metricsServer.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		return d.manager.Run(gctx)
	})

	err := group.Wait()
	if d.audit != nil {
		_ = d.audit.Record(context.Background(), audit.Entry{Source: "daemon", Kind: "stopped"})
	}
	return err
}
