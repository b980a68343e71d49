package app

import (
	"fmt"
	"io"
	"runtime"
)

// Build metadata, set with -ldflags "-X github.com/agbru/racecoord/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request the version banner. It is
// checked before flag parsing so that --version works with otherwise invalid
// arguments.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V", "--V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "racecoord %s\n", Version)
	fmt.Fprintf(out, "Commit:     %s\n", Commit)
	fmt.Fprintf(out, "Built:      %s\n", BuildDate)
	fmt.Fprintf(out, "Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
