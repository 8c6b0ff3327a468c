package composer

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultAutosaveInterval is used when a session enables autosave without an
// explicit interval.
const DefaultAutosaveInterval = 30 * time.Second

// Scheduler runs a job repeatedly until the returned cancel func is called.
type Scheduler interface {
	Every(interval time.Duration, job func()) (cancel func(), err error)
}

// CronScheduler is a Scheduler backed by a single robfig/cron runner shared by
// all sessions. Ticks of one job never overlap.
type CronScheduler struct {
	cron *cron.Cron
}

func NewCronScheduler(logger logrus.FieldLogger) *CronScheduler {
	if logger == nil {
		logger = discardLogger()
	}
	l := cron.PrintfLogger(logger)
	return &CronScheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
	}
}

func (s *CronScheduler) Start() { s.cron.Start() }

// Stop halts the runner; the returned context is done once running jobs finish.
func (s *CronScheduler) Stop() context.Context { return s.cron.Stop() }

// Every schedules job at a fixed period. cron resolution is one second, so
// shorter intervals are rounded up.
func (s *CronScheduler) Every(interval time.Duration, job func()) (func(), error) {
	if interval <= 0 {
		return nil, fmt.Errorf("autosave interval must be positive, got %s", interval)
	}
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(job))
	return func() { s.cron.Remove(id) }, nil
}
