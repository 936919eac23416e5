//go:build !linux

package compiler

import "github.com/tatolab/streamlib/processor"

// applyThreadPriority is a no-op outside Linux: this pack carries no
// portable binding for per-thread OS scheduling priority on other
// platforms, so the resolved hint stays diagnostic-only there.
func applyThreadPriority(processor.Priority) {}
