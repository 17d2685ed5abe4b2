package version

import (
	"runtime/debug"
)

var (
	// Version is the semantic version of the current release. It is intended
	// to be set at build time:
	//
	//	-ldflags="-X github.com/macropower/versync/pkg/version.Version=x.y.z"
	Version = "0.3.1"

	// Revision is the VCS revision of the current build. If it is not set at
	// build time, it is resolved from the revision recorded in the binary's
	// build info, falling back to "unknown".
	Revision = "unknown"
)

func init() {
	if Revision != "unknown" {
		return
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, kv := range bi.Settings {
		if kv.Key == "vcs.revision" {
			Revision = kv.Value

			return
		}
	}
}
