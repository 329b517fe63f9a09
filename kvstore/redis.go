package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a redis string at prefix+key
type RedisStore struct {
	Rds    *redis.Client
	Prefix string
}

func NewRedisStore(rds *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Rds: rds, Prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	val, err := s.Rds.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validate(key, value); err != nil {
		return err
	}
	return s.Rds.Set(ctx, s.Prefix+key, value, 0).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.Rds.Del(ctx, s.Prefix+key).Err()
}

// scan collects all keys matching pattern, following the cursor to the end
func (s *RedisStore) scan(ctx context.Context, match string) (keys []string, err error) {
	var (
		cursor uint64
		_keys  []string
	)
	for {
		if _keys, cursor, err = s.Rds.Scan(ctx, cursor, match, 512).Result(); err != nil {
			return nil, err
		}
		keys = append(keys, _keys...)
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	raw, err := s.scan(ctx, escapeGlob(s.Prefix+prefix)+"*")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.TrimPrefix(k, s.Prefix)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	keys, err := s.Keys(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.Prefix + k
	}
	vals, err := s.Rds.MGet(ctx, full...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		//deleted between scan and mget
		if str, ok := v.(string); ok {
			out[keys[i]] = json.RawMessage(str)
		}
	}
	return out, nil
}

func (s *RedisStore) Close() error { return nil }

func escapeGlob(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
