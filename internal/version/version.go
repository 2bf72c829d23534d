package version

import (
	"fmt"
	"runtime/debug"
)

const Name = "logpane"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	base := Version
	if base == "dev" {
		// go install builds carry the module version instead of ldflags
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			base = bi.Main.Version
		}
	}
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += " " + Date
	}
	return base
}
