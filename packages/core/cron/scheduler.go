package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tournament-api/packages/core/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named periodic task. Spec is a cron expression with seconds.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Auditor interface {
	Audit(ctx context.Context) (*models.LedgerReport, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger

	mu   sync.Mutex
	jobs map[string]Job
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(&logger)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron:   c,
		logger: logger,
		jobs:   make(map[string]Job),
	}
}

// LedgerAuditJob audits the standings ledger and logs every drifted team.
func LedgerAuditJob(spec string, auditor Auditor) Job {
	return Job{
		Name: "ledger-audit",
		Spec: spec,
		Run: func(ctx context.Context) error {
			report, err := auditor.Audit(ctx)
			if err != nil {
				return err
			}
			for _, drift := range report.Drifts {
				zerolog.Ctx(ctx).Warn().
					Uint("team_id", drift.TeamID).
					Int("stored_points", drift.Stored).
					Int("expected_points", drift.Expected).
					Msg("Ledger drift detected")
			}
			return nil
		},
	}
}

// Register schedules a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	if _, err := s.cron.AddFunc(job.Spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule job %q: %w", job.Name, err)
	}

	s.jobs[job.Name] = job
	s.logger.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("Job scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Cron scheduler started")
}

// Stop stops scheduling and waits for running jobs, up to the context's
// deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info().Msg("Stopping cron scheduler...")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info().Msg("Cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("Cron scheduler stop timed out")
	}
}

// RunNow runs a registered job synchronously.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, exists := s.jobs[name]
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("job %q not registered", name)
	}

	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	logger := s.logger.With().Str("job", job.Name).Logger()
	ctx := logger.WithContext(context.Background())

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Job failed")
		return err
	}

	logger.Debug().Dur("duration", time.Since(start)).Msg("Job completed")
	return nil
}
