package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weather-pipeline/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSchedule fires at the top of every hour.
const DefaultSchedule = "0 * * * *"

// BatchRunner refreshes every registered location.
type BatchRunner interface {
	RefreshAll(ctx context.Context) (models.BatchReport, error)
}

// LocationRefresher refreshes a single location.
type LocationRefresher interface {
	Refresh(ctx context.Context, locationID string) (models.RefreshOutcome, error)
}

// Config controls when batches run.
type Config struct {
	Schedule   string
	Location   *time.Location
	RunTimeout time.Duration
}

// Status describes the most recent batch run.
type Status struct {
	Schedule  string    `json:"schedule"`
	Running   bool      `json:"running"`
	LastRunID string    `json:"last_run_id,omitempty"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Failures  int       `json:"failures"`
	NextRun   time.Time `json:"next_run,omitempty"`
}

// Scheduler runs a warm-up batch on start and then one batch per cron tick.
// A tick that fires while the previous batch still runs is skipped; failed
// locations simply wait for the next tick.
type Scheduler struct {
	cron    *cron.Cron
	batch   BatchRunner
	single  LocationRefresher
	cfg     Config
	logger  zerolog.Logger
	entryID cron.EntryID

	mu     sync.Mutex
	status Status
}

// New creates a scheduler. It does nothing until Start is called.
func New(batch BatchRunner, single LocationRefresher, cfg Config, logger zerolog.Logger) *Scheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	logger = logger.With().Str("component", "scheduler").Logger()
	cronLogger := cronLogAdapter{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		batch:  batch,
		single: single,
		cfg:    cfg,
		logger: logger,
		status: Status{Schedule: cfg.Schedule},
	}
}

// Start runs one batch synchronously, then registers the periodic job.
// Scheduled runs derive their context from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Msg("running warm-up refresh")
	s.run(ctx, "startup")

	id, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.run(ctx, "schedule")
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", s.cfg.Schedule, err)
	}
	s.mu.Lock()
	s.entryID = id
	s.mu.Unlock()
	s.cron.Start()

	s.logger.Info().
		Str("schedule", s.cfg.Schedule).
		Time("next_run", s.cron.Entry(id).Next).
		Msg("scheduler started")
	return nil
}

// Stop prevents further ticks and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// TriggerAll runs a batch immediately, outside the schedule.
func (s *Scheduler) TriggerAll(ctx context.Context) (models.BatchReport, error) {
	return s.runBatch(ctx, "manual")
}

// TriggerLocation refreshes one location immediately.
func (s *Scheduler) TriggerLocation(ctx context.Context, locationID string) (models.RefreshOutcome, error) {
	s.logger.Info().Str("location_id", locationID).Msg("manual location refresh")
	return s.single.Refresh(ctx, locationID)
}

// Status returns a snapshot of the last run and the next scheduled tick.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	status := s.status
	entryID := s.entryID
	s.mu.Unlock()

	if entryID != 0 {
		status.NextRun = s.cron.Entry(entryID).Next
	}
	return status
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}
	// Errors are already logged and recorded in the status.
	_, _ = s.runBatch(ctx, trigger)
}

func (s *Scheduler) runBatch(ctx context.Context, trigger string) (models.BatchReport, error) {
	s.mu.Lock()
	s.status.Running = true
	s.mu.Unlock()

	report, err := s.batch.RefreshAll(ctx)

	s.mu.Lock()
	s.status.Running = false
	s.status.LastRunID = report.RunID
	s.status.LastRun = report.StartedAt
	s.status.Failures = len(report.Failures())
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Str("run_id", report.RunID).Msg("batch refresh failed")
		return report, err
	}
	s.logger.Info().
		Str("trigger", trigger).
		Str("run_id", report.RunID).
		Int("locations", len(report.Results)).
		Int("failed", len(report.Failures())).
		Msg("batch refresh complete")
	return report, nil
}

// cronLogAdapter routes cron's own logging through zerolog.
type cronLogAdapter struct {
	logger zerolog.Logger
}

func (l cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
