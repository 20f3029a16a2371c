// Package scheduler drives the detector's recurring jobs via cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/service"
)

const jobTimeout = 30 * time.Minute

// Scheduler manages the recurring analysis, reconciliation and cleanup jobs.
// All cron expressions are evaluated in UTC.
type Scheduler struct {
	cron        *cron.Cron
	analysisSvc *service.AnalysisService
	reconSvc    *service.ReconciliationService
	logger      *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// New creates a scheduler around the two workflow services.
func New(analysisSvc *service.AnalysisService, reconSvc *service.ReconciliationService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		analysisSvc: analysisSvc,
		reconSvc:    reconSvc,
		logger:      logger,
	}
}

// ScheduleAll registers the three standing jobs from configuration.
func (s *Scheduler) ScheduleAll(schedules config.SchedulesConfig) error {
	if err := s.schedule(schedules.DailyAnalysis, "daily_analysis", s.runAnalysis); err != nil {
		return err
	}
	if err := s.schedule(schedules.Reconciliation, "reconciliation", s.runReconciliation); err != nil {
		return err
	}
	return s.schedule(schedules.Cleanup, "cleanup", s.runCleanup)
}

func (s *Scheduler) schedule(expression, name string, job func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(expression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": expression,
	}).Info("Job scheduled")
	return nil
}

func (s *Scheduler) runAnalysis(ctx context.Context) {
	report, err := s.analysisSvc.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled analysis failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"fixtures": report.FixturesAnalyzed,
		"accepted": len(report.Accepted),
		"skipped":  len(report.Skipped),
		"duration": report.Duration.String(),
	}).Info("Scheduled analysis completed")
}

func (s *Scheduler) runReconciliation(ctx context.Context) {
	report, err := s.reconSvc.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled reconciliation failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"checked": report.Checked,
		"settled": report.Settled,
		"hits":    report.Hits,
		"misses":  report.Misses,
	}).Info("Scheduled reconciliation completed")
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	deleted, err := s.analysisSvc.Cleanup(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled cleanup failed")
		return
	}
	s.logger.WithField("deleted", deleted).Info("Scheduled cleanup completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
