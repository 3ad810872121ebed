// Package storage keeps small JSON documents on disk. Every write rewrites
// the whole document; a mutex per file serializes read-modify-write cycles
// inside one process. Nothing coordinates separate processes.
package storage

import (
	"errors"
	"fmt"
	"mediawall/internal/providers"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Document is a ledger payload. Valid reports whether a freshly parsed
// document has the expected shape; Normalize fills in missing collections.
type Document interface {
	Valid() bool
	Normalize()
	Len() int
}

// Store is the contract callers depend on so the JSON file can later be
// replaced by an embedded KV store or gain file locking.
type Store[T Document] interface {
	Ensure() error
	Get() (T, error)
	Mutate(fn func(doc T) (dirty bool, err error)) (T, error)
	Snapshot() ([]byte, error)
	Seed(data []byte) (bool, error)
	Name() string
}

type JSONLedger[T Document] struct {
	mu      sync.Mutex
	name    string
	path    string
	newDoc  func() T
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewJSONLedger[T Document](name, path string, newDoc func() T, logger providers.Logger, metrics providers.MetricsProviderInterface) *JSONLedger[T] {
	return &JSONLedger[T]{
		name:    name,
		path:    path,
		newDoc:  newDoc,
		logger:  logger,
		metrics: metrics,
	}
}

func (l *JSONLedger[T]) Name() string {
	return l.name
}

func (l *JSONLedger[T]) Path() string {
	return l.path
}

// Ensure resets a missing, unparsable or misshapen ledger to its empty
// default. Existing data in a broken file is discarded, not recovered.
func (l *JSONLedger[T]) Ensure() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err == nil {
		doc := l.blank()
		if jerr := json.Unmarshal(data, doc); jerr == nil && doc.Valid() {
			l.metrics.SetLedgerEntries(l.name, doc.Len())
			return nil
		}
		l.logger.Warnf(providers.TypeApp, "Ledger %s at %s is corrupt, resetting to empty default", l.name, l.path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ledger %s: %w", l.name, err)
	} else {
		l.logger.Infof(providers.TypeApp, "Ledger %s not found, creating %s", l.name, l.path)
	}

	doc := l.newDoc()
	l.metrics.SetLedgerEntries(l.name, 0)
	return l.write(doc)
}

func (l *JSONLedger[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Mutate runs fn on the current document under the ledger lock. When fn
// reports dirty the document is written back, even if fn also returns an
// error; that error is then returned to the caller unchanged.
func (l *JSONLedger[T]) Mutate(fn func(doc T) (bool, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.read()
	if err != nil {
		return doc, err
	}

	dirty, fnErr := fn(doc)
	if dirty {
		if err := l.write(doc); err != nil {
			return doc, err
		}
		l.metrics.SetLedgerEntries(l.name, doc.Len())
	}
	return doc, fnErr
}

// Snapshot returns the current document serialized as JSON.
func (l *JSONLedger[T]) Snapshot() ([]byte, error) {
	doc, err := l.Get()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Seed writes data as the ledger document when no ledger file exists yet.
// It reports whether the document was written; data that does not parse
// into a valid document is rejected.
func (l *JSONLedger[T]) Seed(data []byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("ledger %s: %w", l.name, err)
	}

	doc := l.blank()
	if err := json.Unmarshal(data, doc); err != nil {
		return false, fmt.Errorf("ledger %s: seed: %w", l.name, err)
	}
	if !doc.Valid() {
		return false, fmt.Errorf("ledger %s: seed has unexpected shape", l.name)
	}
	if err := l.write(doc); err != nil {
		return false, err
	}
	l.metrics.SetLedgerEntries(l.name, doc.Len())
	return true, nil
}

// blank returns a zero document without defaults, so keys missing from the
// file stay nil and fail Valid.
func (l *JSONLedger[T]) blank() T {
	return reflect.New(reflect.TypeOf(l.newDoc()).Elem()).Interface().(T)
}

// read must be called under l.mu. A missing or corrupt file yields the
// empty default; only genuine I/O failures are returned.
func (l *JSONLedger[T]) read() (T, error) {
	doc := l.newDoc()
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("ledger %s: %w", l.name, err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		l.logger.Warnf(providers.TypeApp, "Ledger %s unreadable, using empty default: %s", l.name, err)
		return l.newDoc(), nil
	}
	doc.Normalize()
	return doc, nil
}

// write must be called under l.mu.
func (l *JSONLedger[T]) write(doc T) error {
	start := time.Now()
	defer func() {
		l.metrics.ObservePersistenceDuration(l.name, time.Since(start))
	}()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(l.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("ledger %s: %w", l.name, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}
