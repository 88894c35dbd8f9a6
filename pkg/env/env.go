// Package env reads process environment variables with fallbacks, for
// the few knobs that live outside the envconfig-managed config struct.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if val = strings.TrimSpace(val); val == "" {
		return fallback
	}
	return val
}
