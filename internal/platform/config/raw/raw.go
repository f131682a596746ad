// Package raw is the bootstrap env reader used before the logger exists
// it must not import the logger package, which reads its own settings through here
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("LOG_")
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) value(k string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + k))
}

// Get returns the trimmed value or def when blank
func (c Conf) Get(k, def string) string {
	if v := c.value(k); v != "" {
		return v
	}
	return def
}

// GetBool treats 1, true, yes and on as true; blank returns def
func (c Conf) GetBool(k string, def bool) bool {
	switch strings.ToLower(c.value(k)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt parses a non negative integer; blank or malformed returns def
func (c Conf) GetInt(k string, def int) int {
	n, err := strconv.Atoi(c.value(k))
	if err != nil || n < 0 {
		return def
	}
	return n
}
