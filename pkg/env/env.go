package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// It backs the handful of knobs read before config loading (log level, PORT).
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
