// Package signal turns process signals into cancellation of a running
// command.
package signal

import (
	"context"
	"os"
	gosignal "os/signal"
	"syscall"
	"time"

	"github.com/javasync/RxIo/internal/constants"
)

const defaultGracePeriod = constants.ShutdownGracePeriod

var (
	osExit      = os.Exit
	exit        = osExit
	gracePeriod = defaultGracePeriod
)

// InterruptChWithCancel cancels on the first Ctrl+C and reports a hint on
// the returned channel. Once ctx is done the handler unregisters, so a
// second Ctrl+C terminates the process the default way. SIGHUP, SIGTERM and
// SIGQUIT cancel as well and force an exit when the command has not
// returned within the shutdown grace period.
func InterruptChWithCancel(ctx context.Context, cancel context.CancelFunc) <-chan string {
	sigIntCh := make(chan os.Signal, 10)
	gosignal.Notify(sigIntCh, os.Interrupt)
	sigOtherCh := make(chan os.Signal, 10)
	gosignal.Notify(sigOtherCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	hintCh := make(chan string, 1)

	go func() {
		defer gosignal.Stop(sigIntCh)
		defer gosignal.Stop(sigOtherCh)

		for {
			select {
			case <-sigIntCh:
				select {
				case hintCh <- "Cancelled, hit Ctrl+C again to exit":
				default:
				}
				cancel()
			case <-sigOtherCh:
				cancel()
				time.AfterFunc(gracePeriod, func() { exit(1) })
			case <-ctx.Done():
				return
			}
		}
	}()
	return hintCh
}
