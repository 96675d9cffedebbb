// Command msrdoc lists the MSR addresses documented in a pdftotext dump of a
// processor manual.
package main

import (
	"os"
)

// version is overridden at release time via -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
