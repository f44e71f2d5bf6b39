// Package scheduler runs the optional history retention job: when a
// retention window is configured, records older than the window are pruned
// once a day.
package scheduler

import (
	"strconv"
	"sync"
	"time"

	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/history"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/robfig/cron/v3"
)

// RetentionKey is the settings key holding the retention window in days.
// Absent or non-positive means keep everything, which is the default.
const RetentionKey = "retention_days"

// Daily at 03:00 local time (seconds field first).
const pruneSpec = "0 0 3 * * *"

// Broadcaster pushes an event to connected browser tabs.
type Broadcaster func(msgType string, payload interface{})

type Scheduler struct {
	cron      *cron.Cron
	db        *database.DB
	store     *history.Store
	broadcast Broadcaster

	mu    sync.Mutex
	entry cron.EntryID
	armed bool
}

func New(db *database.DB, store *history.Store) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		db:    db,
		store: store,
	}
}

func (s *Scheduler) SetBroadcast(b Broadcaster) {
	s.broadcast = b
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Success("Scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Success("Scheduler stopped")
}

// LoadRetention reads the persisted retention window and arms the prune job
// when one is configured.
func (s *Scheduler) LoadRetention() {
	value, err := s.db.GetSetting(RetentionKey)
	if err != nil {
		logger.Error("Failed to load retention setting: %v", err)
		return
	}
	days, _ := strconv.Atoi(value)
	s.ApplyRetention(days)
}

// ApplyRetention re-arms (or disarms, for days <= 0) the daily prune job.
func (s *Scheduler) ApplyRetention(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		s.cron.Remove(s.entry)
		s.armed = false
	}
	if days <= 0 {
		return
	}

	entry, err := s.cron.AddFunc(pruneSpec, func() {
		s.prune(days)
	})
	if err != nil {
		logger.Error("Failed to arm retention job: %v", err)
		return
	}
	s.entry = entry
	s.armed = true
	logger.Success("History retention armed: %d day(s)", days)
}

func (s *Scheduler) prune(days int) {
	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := s.store.PruneOlderThan(cutoff)
	if err != nil {
		logger.Error("History prune failed: %v", err)
		return
	}
	if n == 0 {
		return
	}
	logger.Info("Pruned %d history record(s) older than %d day(s)", n, days)
	if s.broadcast != nil {
		s.broadcast("history_pruned", map[string]int{"removed": n})
	}
}
