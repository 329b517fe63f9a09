package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/truthlens/newsroom/dlog"
)

// FileStore keeps every document in one json object on disk.
// Writes go to a temp file that is renamed over the original, and edits made
// by other processes are picked up through fsnotify.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	docs    map[string]json.RawMessage
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store requires a path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs := &FileStore{path: abs, docs: map[string]json.RawMessage{}, done: make(chan struct{})}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := fs.reload(); err != nil {
		return nil, err
	}
	if fs.watcher, err = fsnotify.NewWatcher(); err != nil {
		dlog.Warn().Err(err).Str("path", abs).Msg("file store watcher unavailable, external edits will not be seen")
		return fs, nil
	}
	//watch the directory, the file itself is replaced on every write
	if err = fs.watcher.Add(filepath.Dir(abs)); err != nil {
		fs.watcher.Close()
		fs.watcher = nil
		dlog.Warn().Err(err).Str("path", abs).Msg("file store watcher unavailable, external edits will not be seen")
		return fs, nil
	}
	fs.wg.Add(1)
	go fs.watch()
	return fs, nil
}

// reload reads and swaps the documents under the write lock
func (fs *FileStore) reload() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	raw, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read %s: %w", fs.path, err)
	}
	docs := map[string]json.RawMessage{}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err = json.Unmarshal(raw, &docs); err != nil {
			return fmt.Errorf("parse %s: %w", fs.path, err)
		}
	}
	fs.docs = docs
	return nil
}

func (fs *FileStore) watch() {
	defer fs.wg.Done()
	for {
		select {
		case <-fs.done:
			return
		case ev, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fs.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := fs.reload(); err != nil {
				dlog.Warn().Err(err).Str("path", fs.path).Msg("file store reload skipped")
				continue
			}
			dlog.Debug().Str("path", fs.path).Msg("file store reloaded")
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			dlog.Warn().Err(err).Msg("file store watcher error")
		}
	}
}

// flush must be called with mu held
func (fs *FileStore) flush() error {
	raw, err := json.MarshalIndent(fs.docs, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".kv-*.json")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fs.path)
}

func (fs *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (fs *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validate(key, value); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.docs[key]
	fs.docs[key] = append(json.RawMessage(nil), value...)
	if err := fs.flush(); err != nil {
		if had {
			fs.docs[key] = prev
		} else {
			delete(fs.docs, key)
		}
		return fmt.Errorf("write %s: %w", fs.path, err)
	}
	return nil
}

func (fs *FileStore) Del(ctx context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.docs[key]
	if !had {
		return nil
	}
	delete(fs.docs, key)
	if err := fs.flush(); err != nil {
		fs.docs[key] = prev
		return fmt.Errorf("write %s: %w", fs.path, err)
	}
	return nil
}

func (fs *FileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	keys := make([]string, 0, len(fs.docs))
	for k := range fs.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (fs *FileStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(fs.docs))
	for k, v := range fs.docs {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out, nil
}

func (fs *FileStore) Close() error {
	select {
	case <-fs.done:
		return nil
	default:
	}
	close(fs.done)
	var err error
	if fs.watcher != nil {
		err = fs.watcher.Close()
	}
	fs.wg.Wait()
	return err
}
