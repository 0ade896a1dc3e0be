// Package schedulersvc runs the periodic maintenance jobs.
package schedulersvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/akademi/core"
)

const jobTimeout = 4 * time.Minute

// Purger deletes stale records; notification.Service is one.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger core.Logger
}

func New(logger core.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
	}
}

// AddPurge schedules p to purge the records older than retention. schedule uses the cron syntax
// (`0 3 * * *`) or a descriptor (`@daily`, `@every 6h`).
func (s *Scheduler) AddPurge(name, schedule string, p Purger, retention time.Duration) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(schedule, PurgeJob(name, p, retention, s.logger))
	if err != nil {
		return 0, errors.Wrapf(err, "scheduling %s purge", name)
	}
	s.logger.Info("scheduled "+name+" purge", map[string]interface{}{"schedule": schedule, "retention": retention.String()})
	return id, nil
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits, at most until ctx is done, for the running jobs.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PurgeJob returns a job purging with p once.
func PurgeJob(name string, p Purger, retention time.Duration, logger core.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		count, err := p.Purge(ctx, retention)
		if err != nil {
			logger.Error("purging "+name, err)
			return
		}
		if count > 0 {
			logger.Info("purged "+name, map[string]interface{}{"count": count})
		}
	}
}

type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{err}, keysAndValues...)...)
}
