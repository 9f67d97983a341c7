// Package env reads raw environment variables for the few settings needed
// before the envconfig-backed config has loaded, such as the log format.
package env

import (
	"os"
	"strconv"
)

// Get returns the variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

// GetBool parses the variable as a boolean. Unset, empty, or unparseable
// values yield the fallback.
func GetBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
