// Package version reports the build stamped into a binary
package version

// Set with -ldflags "-X sprintly/internal/core/version.Version=v0.3.0 -X sprintly/internal/core/version.Commit=abcd -X sprintly/internal/core/version.Date=2025-09-02"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// BuildInfo describes one binary build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build info for service
func Info(service string) BuildInfo {
	return BuildInfo{Service: service, Version: Version, Commit: Commit, Date: Date}
}
