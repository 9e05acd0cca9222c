//go:build windows

package main

import (
	"os"
)

// terminationSignals returns the signals that should trigger a graceful
// drain-and-flush shutdown. Windows has no SIGTERM; service hosts signal
// shutdown via os.Interrupt (console control events map onto it).
func terminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
