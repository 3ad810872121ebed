// Package archive keeps compressed copies of the ledgers and runs the
// periodic housekeeping jobs.
package archive

import (
	"errors"
	"fmt"
	"mediawall/internal/archive/interfaces"
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/storage"
	"mediawall/internal/structures"
	"os"
	"path/filepath"
)

const snapshotExt = ".json.zst"

// Ledger is the part of a ledger store the snapshotter needs.
type Ledger interface {
	Name() string
	Ensure() error
	Snapshot() ([]byte, error)
	Seed(data []byte) (bool, error)
}

type Snapshotter struct {
	dir        string
	ledgers    []Ledger
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewSnapshotter(conf *structures.Config, compressor interfaces.CompressorInterface, likes services.LikesLedger, suggestions services.SuggestionsLedger, logger providers.Logger) *Snapshotter {
	return newSnapshotter(conf.Persistence.SnapshotDir, compressor, logger, likes, suggestions)
}

func newSnapshotter(dir string, compressor interfaces.CompressorInterface, logger providers.Logger, ledgers ...Ledger) *Snapshotter {
	return &Snapshotter{
		dir:        dir,
		ledgers:    ledgers,
		compressor: compressor,
		logger:     logger,
	}
}

func (s *Snapshotter) Enabled() bool {
	return s.dir != ""
}

func (s *Snapshotter) path(name string) string {
	return filepath.Join(s.dir, name+snapshotExt)
}

// SaveAll compresses every ledger into the snapshot directory. A failing
// ledger does not stop the others; all errors are joined.
func (s *Snapshotter) SaveAll() error {
	if !s.Enabled() {
		return nil
	}
	var errs []error
	for _, ledger := range s.ledgers {
		if err := s.save(ledger); err != nil {
			errs = append(errs, fmt.Errorf("snapshot %s: %w", ledger.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Snapshotter) save(ledger Ledger) error {
	jsonData, err := ledger.Snapshot()
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(s.path(ledger.Name()), data, 0644)
}

// Load returns the decompressed snapshot of the named ledger, or nil when
// no snapshot exists.
func (s *Snapshotter) Load(name string) ([]byte, error) {
	if !s.Enabled() {
		return nil, nil
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.compressor.Decompress(data)
}

// RestoreAll prepares every ledger for serving. A ledger whose file is gone
// is seeded from its snapshot first; afterwards each ledger is self-healed.
func (s *Snapshotter) RestoreAll() error {
	var errs []error
	for _, ledger := range s.ledgers {
		s.seed(ledger)
		if err := ledger.Ensure(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Snapshotter) seed(ledger Ledger) {
	data, err := s.Load(ledger.Name())
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Snapshot of %s unreadable, ignoring: %s", ledger.Name(), err)
		return
	}
	if data == nil {
		return
	}
	seeded, err := ledger.Seed(data)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Snapshot of %s rejected: %s", ledger.Name(), err)
		return
	}
	if seeded {
		s.logger.Warnf(providers.TypeApp, "Ledger %s was missing, restored from snapshot", ledger.Name())
	}
}

func (s *Snapshotter) Close() {
	if s.compressor != nil {
		s.compressor.Close()
	}
}
