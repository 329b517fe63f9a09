package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/truthlens/newsroom/dlog"
)

// Collection keeps records of one kind under "<name>:<id>"
type Collection[T any] struct {
	Name  string
	Store Store
}

func NewCollection[T any](store Store, name string) *Collection[T] {
	return &Collection[T]{Name: name, Store: store}
}

func (c *Collection[T]) Key(id string) string { return c.Name + ":" + id }

// NewID returns a fresh record id
func NewID() string { return uuid.NewString() }

func (c *Collection[T]) Get(ctx context.Context, id string) (v T, err error) {
	raw, err := c.Store.Get(ctx, c.Key(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return v, fmt.Errorf("%s %q: %w", c.Name, id, ErrNotFound)
		}
		return v, err
	}
	if err = json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s %q: %w", c.Name, id, err)
	}
	return v, nil
}

func (c *Collection[T]) Put(ctx context.Context, id string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", c.Name, id, err)
	}
	return c.Store.Set(ctx, c.Key(id), raw)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.Store.Del(ctx, c.Key(id))
}

func (c *Collection[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.Store.Get(ctx, c.Key(id))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List returns every record in key order. Records that no longer decode are logged and skipped.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	keys, err := c.Store.Keys(ctx, c.Name+":")
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(keys))
	for _, key := range keys {
		raw, err := c.Store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			dlog.Warn().Err(err).Str("key", key).Msg("skip undecodable record")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
