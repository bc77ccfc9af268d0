package env

import (
	"os"
	"strings"
)

// Prefix namespaces service-specific variables.
const Prefix = "QTYOFFERS_"

// Get returns QTYOFFERS_<key>, then the bare key, then fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Is reports whether the variable resolved by Get equals want, ignoring case.
func Is(key, want string) bool {
	return strings.EqualFold(Get(key, ""), want)
}
