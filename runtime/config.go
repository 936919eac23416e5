// Package runtime assembles StreamLib's core pieces — graph, compiler,
// registry, RHI device — into one process-lifecycle object: Start,
// WaitForSignal, Stop, plus the graph-mutation calls a host program
// drives a running pipeline with.
//
// Configuration follows a plain os.Getenv-with-struct-defaults style
// rather than a config framework.
package runtime

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/tatolab/streamlib/rhi"
)

const (
	envHome           = "STREAMLIB_HOME"
	envRuntimeID      = "STREAMLIB_RUNTIME_ID"
	envRHIBackend     = "STREAMLIB_RHI_BACKEND"
	envBrokerPort     = "STREAMLIB_BROKER_PORT"
	defaultBrokerPort = 9595
)

// Config is the assembled runtime configuration: explicit struct
// fields take precedence over environment variables, which take
// precedence over the defaults below.
type Config struct {
	// Home is STREAMLIB_HOME: the directory holding packages.yaml, the
	// installed-processors SQLite index, and per-processor venv/data
	// directories.
	Home string

	// RuntimeID identifies this process across restarts, used as the
	// runtime_id key in pkginstall's per-processor index. Generated if
	// left empty.
	RuntimeID string

	// RHIBackend is the explicit backend argument passed to
	// rhi.NewDevice; empty defers to STREAMLIB_RHI_BACKEND / platform
	// default.
	RHIBackend rhi.Backend

	// BrokerPort is the TCP port the observability websocket broker
	// listens on.
	BrokerPort int
}

// defaultHome returns ~/.streamlib, falling back to a relative
// directory if the home directory can't be resolved.
func defaultHome() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".streamlib")
	}
	return ".streamlib"
}

// ResolveConfig fills in cfg's zero-valued fields from environment
// variables, then from defaults.
func ResolveConfig(cfg Config) Config {
	if cfg.Home == "" {
		if env := os.Getenv(envHome); env != "" {
			cfg.Home = env
		} else {
			cfg.Home = defaultHome()
		}
	}
	if cfg.RuntimeID == "" {
		cfg.RuntimeID = os.Getenv(envRuntimeID)
	}
	if cfg.RHIBackend == "" {
		cfg.RHIBackend = rhi.Backend(os.Getenv(envRHIBackend))
	}
	if cfg.BrokerPort == 0 {
		if env := os.Getenv(envBrokerPort); env != "" {
			if port, err := strconv.Atoi(env); err == nil {
				cfg.BrokerPort = port
			}
		}
		if cfg.BrokerPort == 0 {
			cfg.BrokerPort = defaultBrokerPort
		}
	}
	return cfg
}
