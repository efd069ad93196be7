package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFactory builds a fresh job for each scheduled run
type JobFactory func() Job

// Scheduler submits jobs to the worker pool on their cron schedules.
type Scheduler struct {
	cron         *cron.Cron
	pool         *WorkerPool
	schedule     Schedule
	factories    map[string]JobFactory
	runOnStartup bool
}

func NewScheduler(pool *WorkerPool, schedule Schedule, factories map[string]JobFactory, runOnStartup bool) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLogger(cronLogger{})),
		pool:         pool,
		schedule:     schedule,
		factories:    factories,
		runOnStartup: runOnStartup,
	}
}

// Start registers every enabled job and starts the cron loop.
func (s *Scheduler) Start() error {
	var enabled []string
	for _, name := range s.schedule.Names() {
		spec := s.schedule[name]
		if spec == "" {
			continue
		}
		factory, ok := s.factories[name]
		if !ok {
			return fmt.Errorf("no job registered for %q", name)
		}

		if _, err := s.cron.AddFunc(spec, func() { s.submit(factory) }); err != nil {
			return fmt.Errorf("failed to schedule %q: %w", name, err)
		}
		enabled = append(enabled, name)
		zap.L().Info("Scheduled job", zap.String("job", name), zap.String("spec", spec))
	}

	if s.runOnStartup {
		for _, name := range enabled {
			s.submit(s.factories[name])
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for in-flight submissions.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) submit(factory JobFactory) {
	job := factory()
	if err := s.pool.Submit(job); err != nil {
		zap.L().Warn("Could not submit scheduled job", zap.String("job", job.Name()), zap.Error(err))
	}
}

// cronLogger routes cron's own logging to zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zap.S().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
