// Package system reports the host platform and build version.
package system

import "runtime"

// Version is stamped at build time with -ldflags "-X devhub/internal/system.Version=...".
var Version = "0.1.0"

// Info describes the running binary.
type Info struct {
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	Version  string `json:"version"`
}

// Current returns the platform, architecture and version of this build.
func Current() Info {
	return Info{
		Platform: runtime.GOOS,
		Arch:     runtime.GOARCH,
		Version:  Version,
	}
}
