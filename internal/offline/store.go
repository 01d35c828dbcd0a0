// Package offline keeps the last good catalog payload and the last search
// keyword so the list can be shown before, or without, a successful fetch.
package offline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Store.Load for a key that was never saved.
var ErrNotFound = errors.New("offline: key not found")

// Store is the persistence medium behind Cache. Implementations keep the last
// write per key forever: there is no expiry and no eviction.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options select and configure a Store.
type Options struct {
	Backend       string
	Path          string // sqlite database file
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the Store named by opts.Backend. An empty backend means sqlite.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		return NewSQLiteStore(ctx, opts.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
