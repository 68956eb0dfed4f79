//go:build unix

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// skipSignals wires transport skipping to signals so a playing session can
// be controlled from another terminal: SIGUSR1 skips forward, SIGUSR2
// skips backward.
func skipSignals() (forward, backward <-chan os.Signal) {
	fwd := make(chan os.Signal, 1)
	back := make(chan os.Signal, 1)
	signal.Notify(fwd, unix.SIGUSR1)
	signal.Notify(back, unix.SIGUSR2)
	return fwd, back
}
