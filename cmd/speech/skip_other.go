//go:build !unix

package main

import "os"

// skipSignals reports no skip controls on platforms without user signals.
// A nil channel never fires in the select loop.
func skipSignals() (forward, backward <-chan os.Signal) {
	return nil, nil
}
