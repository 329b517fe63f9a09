package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truthlens/newsroom/config"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	lite, err := NewSQLiteStore(ctx, filepath.Join(dir, "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"redis":  NewRedisStore(rc, "newsroom:"),
		"sqlite": lite,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "site")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "site", []byte(`{"siteName":"TruthLens"}`)))
			require.NoError(t, s.Set(ctx, "sections", []byte(`[{"id":"hero"}]`)))
			require.NoError(t, s.Set(ctx, "article:b", []byte(`{"id":"b"}`)))
			require.NoError(t, s.Set(ctx, "article:a", []byte(`{"id":"a"}`)))

			got, err := s.Get(ctx, "site")
			require.NoError(t, err)
			assert.JSONEq(t, `{"siteName":"TruthLens"}`, string(got))

			require.NoError(t, s.Set(ctx, "site", []byte(`{"siteName":"Other"}`)))
			got, err = s.Get(ctx, "site")
			require.NoError(t, err)
			assert.JSONEq(t, `{"siteName":"Other"}`, string(got))

			keys, err := s.Keys(ctx, "article:")
			require.NoError(t, err)
			assert.Equal(t, []string{"article:a", "article:b"}, keys)

			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 4)
			assert.JSONEq(t, `[{"id":"hero"}]`, string(all["sections"]))

			require.NoError(t, s.Del(ctx, "article:a"))
			require.NoError(t, s.Del(ctx, "article:missing"))
			_, err = s.Get(ctx, "article:a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(ctx, "", []byte(`{}`)), ErrInvalidKey)
			assert.ErrorIs(t, s.Set(ctx, "a/b", []byte(`{}`)), ErrInvalidKey)
			assert.ErrorIs(t, s.Set(ctx, "site", []byte(`{not json`)), ErrInvalidJSON)
			_, err := s.Get(ctx, "a/b")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	val := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "k", val))
	val[2] = 'b'
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "menu", []byte(`[{"id":"1","label":"Home"}]`)))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = NewFileStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "menu")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","label":"Home"}]`, string(got))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".kv-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStoreReloadsExternalEdits(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	defer s.Close()
	if s.watcher == nil {
		t.Skip("fsnotify unavailable")
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"site":{"siteName":"Edited"}}`), 0644))
	require.Eventually(t, func() bool {
		got, err := s.Get(ctx, "site")
		return err == nil && string(got) == `{"siteName":"Edited"}`
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0644))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.ConfigStore{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.ConfigStore{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open(ctx, config.ConfigStore{Backend: "cassandra"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRedisStoreKeepsPrefixPrivate(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()
	require.NoError(t, mr.Set("other:site", `{"x":1}`))

	s := NewRedisStore(rc, "newsroom:")
	require.NoError(t, s.Set(ctx, "site", []byte(`{"y":2}`)))
	assert.True(t, mr.Exists("newsroom:site"))

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"site"}, keys)
}

func TestSharedStores(t *testing.T) {
	for name, s := range backends(t) {
		assert.Equal(t, name != "memory", Shared(s), name)
	}
}
