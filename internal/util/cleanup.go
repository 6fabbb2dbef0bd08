package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptContext is cancelled on the first SIGINT or SIGTERM so running
// crawls stop and partial results can still be written. A second signal
// exits immediately. The returned func releases the signal handler.
func InterruptContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			cancel()
		})
	}

	go func() {
		defer signal.Stop(sig)

		select {
		case <-sig:
			fmt.Println("\nInterrupt received. Finishing current pages...")
			cancel()
		case <-stop:
			return
		}

		select {
		case <-sig:
			fmt.Println("\nExiting due to interrupt.")
			os.Exit(1)
		case <-stop:
		}
	}()

	return ctx, release
}
