// Package cache stores generation-service replies keyed by a digest of the
// request, so repeated runs over the same essay skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes the parts into a namespaced cache key
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		// length prefix keeps ("ab","c") distinct from ("a","bc")
		fmt.Fprintf(h, "%d:%s;", len(p), p)
	}
	return "essayfb:v1:" + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Options selects and configures a backend
type Options struct {
	Backend   string // memory, disk, layered, redis
	Dir       string
	TTL       time.Duration
	RedisAddr string
}

// New builds the cache described by opts
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case "memory":
		return NewMemoryCache(opts.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(opts.Dir, opts.TTL), nil
	case "", "layered":
		return NewLayeredCache(opts.TTL, opts.Dir, opts.TTL), nil
	case "redis":
		return NewRedisCache(opts.RedisAddr, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, disk, layered, redis)", opts.Backend)
	}
}
