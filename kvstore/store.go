// Package kvstore keeps opaque JSON documents under string keys.
//
// The same Store contract is served by several backends: memory, a flat json
// file, redis, sqlite and postgres. Callers never see which one is in use.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/truthlens/newsroom/config"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrInvalidKey     = errors.New("invalid document key")
	ErrInvalidJSON    = errors.New("document is not valid json")
	ErrUnknownBackend = errors.New("unknown store backend")
)

const maxKeyLength = 256

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Del removes key; removing an absent key is not an error
	Del(ctx context.Context, key string) error
	// Keys lists keys starting with prefix, sorted ascending
	Keys(ctx context.Context, prefix string) ([]string, error)
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Close() error
}

// Shared reports whether other processes may write to s behind this one's back.
// Stores that do not say otherwise are treated as shared.
func Shared(s Store) bool {
	if sh, ok := s.(interface{ Shared() bool }); ok {
		return sh.Shared()
	}
	return true
}

func ValidateKey(key string) error {
	if key == "" || len(key) > maxKeyLength || strings.ContainsAny(key, "/\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func validate(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: key %q", ErrInvalidJSON, key)
	}
	return nil
}

// Open creates the backend named by cfg.Backend
func Open(ctx context.Context, cfg config.ConfigStore) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "redis":
		name := cfg.RedisName
		if name == "" {
			name = "default"
		}
		rc, err := config.GetRdsClientByName(name)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rc, cfg.Prefix), nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.Path)
	case "postgres":
		return NewPGStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
