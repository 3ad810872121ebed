package storage

import (
	"errors"
	"mediawall/internal/providers"
	"os"
	"strconv"
	"sync"
	"time"
)

// WatchedFile caches the parsed content of a file owned by another process.
// The cache is keyed by modification time and size: a change triggers a
// reload, and a failed reload keeps serving the last good value.
type WatchedFile[T any] struct {
	mu      sync.Mutex
	path    string
	parse   func([]byte) (T, error)
	logger  providers.Logger
	value   T
	loaded  bool
	modTime time.Time
	size    int64
	failed  time.Time
}

func NewWatchedFile[T any](path string, parse func([]byte) (T, error), logger providers.Logger) *WatchedFile[T] {
	return &WatchedFile[T]{
		path:   path,
		parse:  parse,
		logger: logger,
	}
}

func (w *WatchedFile[T]) Path() string {
	return w.path
}

// Load returns the current value and a version string that changes
// whenever the value is reloaded from disk. Before the first successful
// load the zero value and version "0" are returned.
func (w *WatchedFile[T]) Load() (T, string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" {
		return w.value, w.version()
	}

	info, err := os.Stat(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warnf(providers.TypeApp, "Cannot stat %s: %s", w.path, err)
		}
		return w.value, w.version()
	}
	if info.IsDir() {
		return w.value, w.version()
	}

	mod := info.ModTime()
	if w.loaded && mod.Equal(w.modTime) && info.Size() == w.size {
		return w.value, w.version()
	}
	if !w.failed.IsZero() && mod.Equal(w.failed) {
		return w.value, w.version()
	}

	data, err := os.ReadFile(w.path)
	if err == nil {
		var value T
		value, err = w.parse(data)
		if err == nil {
			w.value = value
			w.loaded = true
			w.modTime = mod
			w.size = info.Size()
			w.failed = time.Time{}
			return w.value, w.version()
		}
	}

	w.failed = mod
	w.logger.Warnf(providers.TypeApp, "Reload of %s failed, keeping last good copy: %s", w.path, err)
	return w.value, w.version()
}

func (w *WatchedFile[T]) version() string {
	if !w.loaded {
		return "0"
	}
	return strconv.FormatInt(w.modTime.UnixNano(), 36) + "-" + strconv.FormatInt(w.size, 36)
}
