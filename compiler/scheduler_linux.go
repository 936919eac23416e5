//go:build linux

package compiler

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/tatolab/streamlib/processor"
)

// niceForPriority maps a scheduling Priority to a Linux nice value.
// Lower nice values favor the thread; real-time and high-priority
// processors request negative values, which Linux only grants with
// CAP_SYS_NICE or a matching RLIMIT_NICE.
func niceForPriority(p processor.Priority) int {
	switch p {
	case processor.PriorityRealTime:
		return -10
	case processor.PriorityHigh:
		return -5
	case processor.PriorityNormal:
		return 0
	default:
		return 5
	}
}

// applyThreadPriority pins the calling goroutine to its own OS thread
// and sets that thread's nice value to match p. Best-effort: lowering
// the nice value below the current one without CAP_SYS_NICE or RLIMIT_NICE
// fails with EACCES, which is swallowed
// since a scheduling hint is advisory, not a correctness requirement.
func applyThreadPriority(p processor.Priority) {
	runtime.LockOSThread()
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), niceForPriority(p))
}
