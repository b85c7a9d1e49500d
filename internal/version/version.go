// Package version holds build metadata for the matzip binary.
package version

// Stamped at build time:
//
//	go build -ldflags "-X github.com/seoulbites/matzip/internal/version.Version=v1.2.0 ..."
//
// Unstamped builds report the dev defaults.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
