package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work
type Job interface {
	Run(ctx context.Context) (SyncResult, error)
}

// DailyScheduler runs a job once a day at a fixed wall clock time
type DailyScheduler struct {
	job      Job
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	onStart  bool
	logger   logger.Logger
}

// NewDailyScheduler creates a scheduler for "HH:MM" in loc
func NewDailyScheduler(job Job, at string, loc *time.Location, onStart bool, log logger.Logger) (*DailyScheduler, error) {
	spec, err := cronSpec(at)
	if err != nil {
		return nil, err
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}

	cronLog := cronLogger{logger: log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &DailyScheduler{
		job:      job,
		cron:     c,
		schedule: schedule,
		location: loc,
		onStart:  onStart,
		logger:   log,
	}, nil
}

// cronSpec turns "HH:MM" into a daily five field cron expression
func cronSpec(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// Next returns the first run time strictly after t
func (s *DailyScheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Start blocks, running the job at every scheduled time until ctx is cancelled.
// A sync still running at cancellation is waited for.
func (s *DailyScheduler) Start(ctx context.Context) {
	if s.onStart {
		s.runOnce(ctx)
	}

	s.cron.Schedule(s.schedule, cron.FuncJob(func() { s.runOnce(ctx) }))
	s.cron.Start()
	s.logger.Info("Next sync scheduled", "at", s.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *DailyScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Info("Running scheduled sync")
	if _, err := s.job.Run(ctx); err != nil {
		s.logger.Error("Scheduled sync failed", "error", err)
	}
}

// cronLogger routes cron's own logging into the service logger
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
