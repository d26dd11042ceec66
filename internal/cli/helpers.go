package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptSignals stop a run the same way the "q" control command does.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InterruptContext returns a context that is cancelled when the user interrupts the
// run (SIGINT or SIGTERM) or when stop is called. Call stop to release the signal
// handler as soon as the run is over.
func InterruptContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, interruptSignals...)
}
