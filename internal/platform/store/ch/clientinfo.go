package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"sprintly/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags queries in system.query_log with the binary, build and host
func BuildClientInfo(app string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	if app = strings.TrimSpace(app); app == "" {
		app = "sprintly"
	}
	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: app, Version: version.Version},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: vcsShortSHA()},
		{Name: "host", Version: strings.TrimSpace(host)},
	}}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
