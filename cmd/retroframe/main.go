// Command retroframe is the libretro frontend's process entry point: it
// loads a core, opens a game, and drives the main loop described in
// internal/host until the user quits or the core faults.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/retrohandheld/minarch/internal/core"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [--version] [--features] <core> <game>\n", os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

// run contains everything main would otherwise do directly, so deferred
// cleanup in runFrontend always executes before the process exits (a
// bare os.Exit from within main would skip them).
func run() int {
	version := pflag.BoolP("version", "v", false, "print version and exit")
	features := pflag.BoolP("features", "f", false, "print compiled features and exit")
	probeLoad := pflag.Bool("probe-load", false, "internal: run as a load-guard probe child, never invoked directly")
	pflag.Usage = usage
	pflag.Parse()

	switch {
	case *version:
		printVersion()
		return 0
	case *features:
		printFeatures()
		return 0
	}

	args := pflag.Args()
	if len(args) != 2 {
		usage()
		return 1
	}
	corePath, gamePath := args[0], args[1]

	if *probeLoad {
		core.RunProbeChild(corePath, gamePath)
		return 0 // unreachable: RunProbeChild always calls os.Exit
	}

	return runFrontend(corePath, gamePath)
}
