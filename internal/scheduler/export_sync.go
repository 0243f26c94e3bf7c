// Package scheduler runs the periodic shelf export on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lourensdv/boekrak/internal/config"
	"github.com/lourensdv/boekrak/internal/tasks"
)

// ExportSyncScheduler enqueues a shelf export task on the configured
// schedule.
type ExportSyncScheduler struct {
	taskClient *tasks.Client
	cfg        config.ExportSync

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewExportSyncScheduler creates a new scheduler instance.
func NewExportSyncScheduler(taskClient *tasks.Client, cfg config.ExportSync) *ExportSyncScheduler {
	return &ExportSyncScheduler{
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if export sync is enabled.
func (s *ExportSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Export sync scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runExport()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Export sync scheduler: started with schedule %q", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ExportSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete.
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		// Release the watcher goroutine started in Start.
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Export sync scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *ExportSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next export will occur.
func (s *ExportSyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ExportSyncScheduler) runExport() {
	if s.taskClient == nil {
		log.Printf("Export sync: skipped (task queue disabled)")
		return
	}
	if _, err := s.taskClient.Add(tasks.ExportLibraryTask{}).Save(); err != nil {
		log.Printf("Export sync: failed to enqueue export task: %v", err)
		return
	}
	log.Printf("Export sync: export task enqueued")
}
