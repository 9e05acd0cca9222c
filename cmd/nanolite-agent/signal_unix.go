//go:build unix

package main

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminationSignals returns the signals that should trigger a graceful
// drain-and-flush shutdown on a unix development host. The production
// target for this agent is Windows/ETW (see signal_windows.go); this
// file exists so the agent is runnable and testable off-platform.
func terminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.Signal(unix.SIGTERM)}
}
