package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spatialops/pgprovision/internal/cli"
	"github.com/spatialops/pgprovision/pkg/pgprovision"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgprovision.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(pgprovision.ExitCodeForError(err))
	}
}
