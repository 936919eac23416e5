package runtime

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tatolab/streamlib/compiler"
	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/internal/id"
	streamliblog "github.com/tatolab/streamlib/log"
	"github.com/tatolab/streamlib/pkginstall"
	"github.com/tatolab/streamlib/processor"
	"github.com/tatolab/streamlib/rhi"
)

// Runtime is one StreamLib process: a compiler over a single graph, a
// processor descriptor registry, an RHI device, and the installed-
// package bookkeeping under Config.Home. It is the top-level object a
// host program constructs, starts, and stops.
type Runtime struct {
	cfg      Config
	registry *processor.Registry
	compiler *compiler.Compiler
	device   rhi.Device
	store    *pkginstall.Store
}

// New assembles a Runtime from cfg (resolved against environment
// variables and defaults via ResolveConfig) and registry. Pass
// processor.Global to use the process-wide descriptor registry, or a
// private *processor.Registry for test isolation.
func New(cfg Config, registry *processor.Registry) (*Runtime, error) {
	cfg = ResolveConfig(cfg)
	if cfg.RuntimeID == "" {
		cfg.RuntimeID = id.NewRuntimeId()
	}

	if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
		return nil, err
	}

	device, err := rhi.NewDevice(cfg.RHIBackend)
	if err != nil {
		return nil, err
	}

	store, err := pkginstall.NewStore(pkginstall.Options{
		Path: filepath.Join(cfg.Home, "installed_processors.db"),
	})
	if err != nil {
		device.Close()
		return nil, err
	}

	return &Runtime{
		cfg:      cfg,
		registry: registry,
		compiler: compiler.New(registry),
		device:   device,
		store:    store,
	}, nil
}

// Config returns the runtime's resolved configuration.
func (r *Runtime) Config() Config { return r.cfg }

// Graph returns the compiler's authoritative graph, for read-only
// observability use.
func (r *Runtime) Graph() *graph.Graph { return r.compiler.Graph() }

// Device returns the runtime's RHI device.
func (r *Runtime) Device() rhi.Device { return r.device }

// Store returns the installed-processors SQLite index.
func (r *Runtime) Store() *pkginstall.Store { return r.store }

// Start begins the compiler's background event loop (the
// STREAMLIB_HOME directory is already created by New). It does not block; call WaitForSignal or
// Stop to end the process.
func (r *Runtime) Start(ctx context.Context) error {
	streamliblog.GetDefaultLogger().Info("runtime: starting runtime_id=%s home=%s backend=%s", r.cfg.RuntimeID, r.cfg.Home, r.device.Backend())
	r.compiler.Start(ctx)
	return nil
}

// AddProcessor declares a new processor node, compiling it in.
func (r *Runtime) AddProcessor(ctx context.Context, spec compiler.ProcessorSpec, inputs, outputs []graph.Port) (string, error) {
	id, err := r.compiler.AddProcessor(spec, inputs, outputs)
	if err != nil {
		return "", err
	}
	return id, r.compiler.Compile(ctx)
}

// RemoveProcessor queues and compiles the removal of an existing
// processor.
func (r *Runtime) RemoveProcessor(ctx context.Context, processorID string) error {
	if err := r.compiler.RemoveProcessor(processorID); err != nil {
		return err
	}
	return r.compiler.Compile(ctx)
}

// Connect wires source to target, compiling the new link in.
func (r *Runtime) Connect(ctx context.Context, source, target graph.PortRef, capacity int) (string, error) {
	id, err := r.compiler.Connect(source, target, capacity)
	if err != nil {
		return "", err
	}
	return id, r.compiler.Compile(ctx)
}

// Disconnect removes an existing link, compiling the removal in.
func (r *Runtime) Disconnect(ctx context.Context, linkID string) error {
	if err := r.compiler.Disconnect(linkID); err != nil {
		return err
	}
	return r.compiler.Compile(ctx)
}

// UpdateProcessorConfig pushes a live config update to a running
// processor that implements processor.ConfigUpdater.
func (r *Runtime) UpdateProcessorConfig(processorID string, newConfig []byte) error {
	return r.compiler.UpdateProcessorConfig(processorID, newConfig)
}

// Pause suspends every running processor's execution discipline.
func (r *Runtime) Pause(ctx context.Context) error { return r.compiler.Pause(ctx) }

// Resume is the symmetric counterpart to Pause.
func (r *Runtime) Resume(ctx context.Context) error { return r.compiler.Resume(ctx) }

// WaitForSignal blocks until SIGINT or SIGTERM arrives, then returns
// the signal received.
func WaitForSignal() os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return <-sigChan
}

// Stop tears down every processor in reverse dependency order and
// releases the RHI device and installed-package store. The runtime is
// not reusable after Stop.
func (r *Runtime) Stop(ctx context.Context) error {
	streamliblog.GetDefaultLogger().Info("runtime: stopping runtime_id=%s", r.cfg.RuntimeID)
	r.compiler.Stop()
	err := r.compiler.Shutdown(ctx)
	if closeErr := r.store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if closeErr := r.device.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
