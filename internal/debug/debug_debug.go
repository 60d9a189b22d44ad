//go:build debug

package debug

import "log"

// Printf logs a state machine trace.  Only compiled in with -tags debug.
func Printf(msg string, args ...any) {
	log.Printf("jsonstreams: "+msg, args...)
}

const On = true
