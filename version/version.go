// Package version reports build information injected with
//
//	go build -ldflags "-X github.com/teranos/dlog/version.Version=v0.3.0 \
//	    -X github.com/teranos/dlog/version.CommitHash=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name used in version strings
const Name = "dlog"

// Set at build time via ldflags
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version" yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, i.Version, i.CommitHash, i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
