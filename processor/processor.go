package processor

import (
	"context"
	"encoding/json"
)

// Lifecycle is the setup/teardown pair common to every execution mode.
type Lifecycle interface {
	Setup(ctx context.Context) error
	Teardown(ctx context.Context) error
}

// ConfigUpdater is implemented by processors that accept a live config
// change without being re-created. Processors that require rewiring on config change simply
// don't implement it; the caller removes and re-adds the processor
// instead.
type ConfigUpdater interface {
	UpdateConfig(raw json.RawMessage) error
}

// Pauser is implemented by processors that need to observe
// pause/resume transitions explicitly. Optional: most processors rely
// on the scheduler simply not consuming their wakeup channel or
// yielding their Continuous loop while paused.
type Pauser interface {
	OnPause(ctx context.Context) error
	OnResume(ctx context.Context) error
}

// Processor is satisfied by Continuous and Reactive processors: the
// scheduler calls Process repeatedly (on an interval, or once per
// coalesced wakeup) on the processor's dedicated thread. ExecutionConfig
// declares which of the two disciplines applies.
type Processor interface {
	Lifecycle
	ExecutionConfig() ExecutionConfig
	Process(ctx context.Context) error
}

// ManualProcessor is satisfied by Manual processors: the scheduler
// calls Start exactly once and later Stop on shutdown; the processor
// thereafter drives its own timing.
type ManualProcessor interface {
	Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Factory constructs a processor instance from its opaque JSON config.
// The returned value must implement either Processor or
// ManualProcessor.
type Factory func(config json.RawMessage) (any, error)
