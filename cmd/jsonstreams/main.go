package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/arnodel/jsonstreams/internal/cli"
	"github.com/arnodel/jsonstreams/internal/iostreams"
)

// Set with -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Do not handle SIGPIPE, a closed stdout shows up as EPIPE write errors
	// which cli.Execute ignores.
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
			os.Exit(2)
		}
	}()

	streams := iostreams.New()
	root := cli.NewRootCmd(streams, cli.VersionInfo{Version: version, Commit: commit, Date: date})
	if err := cli.Execute(root, streams); err != nil {
		os.Exit(1)
	}
}
