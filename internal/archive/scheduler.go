package archive

import (
	"mediawall/internal/archive/interfaces"
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	cooldown    *services.Cooldown
	snapshotter *Snapshotter
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	sweepInterval := s.config.Persistence.SweepInterval
	snapshotInterval := s.config.Persistence.SnapshotInterval

	if sweepInterval > 0 {
		s.cron.AddFunc(gron.Every(sweepInterval), func() {
			if removed := s.cooldown.Sweep(); removed > 0 {
				s.logger.Debugf(providers.TypeApp, "Cooldown sweep released %d clients", removed)
			}
		})
	}

	if snapshotInterval > 0 && s.snapshotter.Enabled() {
		s.cron.AddFunc(gron.Every(snapshotInterval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.snapshotter.SaveAll(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while writing snapshots: %s", err)
				return
			}
			s.logger.Infof(providers.TypeApp, "Snapshots written to %s", s.config.Persistence.SnapshotDir)
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore seeds missing ledgers from snapshots and self-heals all of them.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.snapshotter.RestoreAll()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if !s.snapshotter.Enabled() {
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Writing ledger snapshots...")
	err := s.snapshotter.SaveAll()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing snapshots: %s", err)
		return err
	}
	return nil
}

// Close releases the snapshot codec. Persist must not be called afterwards.
func (s *Scheduler) Close() {
	if s.snapshotter != nil {
		s.snapshotter.Close()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, cooldown *services.Cooldown, snapshotter *Snapshotter) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		cooldown:    cooldown,
		snapshotter: snapshotter,
	}
}
