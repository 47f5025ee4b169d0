// Package env holds small environment-variable helpers used before the
// typed config is loaded.
package env

import "os"

// Get returns the environment variable's value, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
