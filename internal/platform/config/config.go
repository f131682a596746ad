// Package config reads service configuration from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sprintly/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("CORE_API_")
// the zero value reads unprefixed keys
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix creates a child Conf, e.g. New().Prefix("CORE_").Prefix("API_") reads CORE_API_*
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully qualified variable name for k
func (c Conf) Key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and whether it is non empty
func (c Conf) lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(k)))
	return v, v != ""
}

// must panics via the root logger so boot failures carry the offending key
func (c Conf) must(k, value, msg string) {
	evt := logger.Get().Panic().Str("key", c.Key(k))
	if value != "" {
		evt = evt.Str("value", value)
	}
	evt.Msg(msg)
}

// MustString panics if the key is missing or blank
func (c Conf) MustString(k string) string {
	v, ok := c.lookup(k)
	if !ok {
		c.must(k, "", "missing required env")
	}
	return v
}

// MustInt panics if the key is missing or not an int
func (c Conf) MustInt(k string) int {
	s := c.MustString(k)
	v, err := strconv.Atoi(s)
	if err != nil {
		c.must(k, s, "invalid int value")
	}
	return v
}

// MustFloat64 panics if the key is missing or not a float
func (c Conf) MustFloat64(k string) float64 {
	s := c.MustString(k)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.must(k, s, "invalid float value")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(k, def string) string {
	if v, ok := c.lookup(k); ok {
		return v
	}
	return def
}

// mayParse returns def when the key is unset and warns when it fails to parse
func mayParse[T any](c Conf, k string, def T, parse func(string) (T, error)) T {
	s, ok := c.lookup(k)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(k)).Str("value", s).Interface("default", def).Msg("invalid env value; using default")
		return def
	}
	return v
}

// MayInt returns the int value or def
func (c Conf) MayInt(k string, def int) int {
	return mayParse(c, k, def, strconv.Atoi)
}

// MayFloat64 returns the float value or def
func (c Conf) MayFloat64(k string, def float64) float64 {
	return mayParse(c, k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the bool value or def
func (c Conf) MayBool(k string, def bool) bool {
	return mayParse(c, k, def, strconv.ParseBool)
}

// MayDuration returns the duration value (250ms, 2s, 1h) or def
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	return mayParse(c, k, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(k string, def []string) []string {
	s, ok := c.lookup(k)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value lower cased if it is one of allowed, def if unset, and panics otherwise
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v, ok := c.lookup(k)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.Key(k)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
