// Package cache provides the layered (memory + disk) cache used to persist
// NER responses across ingestion runs.
package cache

import (
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from its parts. Parts are expected to be
// filesystem-safe already (provider names, hex fingerprints).
func Key(parts ...string) string {
	return "veridex-v1-" + strings.Join(parts, "-")
}
