package main

import (
	"fmt"
	"runtime"
	"sort"
)

// Version is the frontend's own release tag, independent of any core it
// loads.
const Version = "0.1.0"

// compiledFeatures tracks build-time feature flags via init() registration
// in the build-tag-gated files alongside this one (backend_*.go for the
// video/audio backends compiled in, gpio_default.go for GPIO input).
var compiledFeatures []string

func printVersion() {
	fmt.Printf("retroframe %s\n", Version)
}

func printFeatures() {
	fmt.Printf("retroframe %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sorted := append([]string(nil), compiledFeatures...)
	sort.Strings(sorted)
	for _, f := range sorted {
		fmt.Printf("  %s\n", f)
	}
	if len(sorted) == 0 {
		fmt.Println("  (none)")
	}
}
