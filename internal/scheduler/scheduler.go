// Package scheduler runs the pipeline jobs on cron schedules inside the
// serve process. Schedules are standard 5-field cron expressions; each job
// gets in-process overlap suppression so a slow run is never stacked on top
// of itself.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/sirupsen/logrus"
)

// Job pairs a cron expression with a runnable pipeline entry point
type Job struct {
	Name string
	Expr string
	Run  func(ctx context.Context)
}

// Scheduler ticks once a minute and starts every job whose expression is due
type Scheduler struct {
	jobs []Job
	gron *gronx.Gronx
	log  logrus.FieldLogger
	tick time.Duration

	mu      sync.Mutex
	running map[string]bool
}

// New creates an empty scheduler
func New(log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		gron:    gronx.New(),
		log:     log,
		tick:    time.Minute,
		running: make(map[string]bool),
	}
}

// Add registers a job. Jobs with an empty expression are ignored, which lets
// config disable individual schedules.
func (s *Scheduler) Add(job Job) error {
	if job.Expr == "" {
		return nil
	}
	if !s.gron.IsValid(job.Expr) {
		return fmt.Errorf("invalid cron expression for job %s: %q", job.Name, job.Expr)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start runs the tick loop until the context is cancelled. Due jobs run on
// their own goroutines so one job never delays another's schedule.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.log.WithFields(logrus.Fields{"job": job.Name, "cron": job.Expr}).Info("schedule registered")
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

// runDue starts every job due at the given minute
func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	ref := now.Truncate(time.Minute)
	for _, job := range s.jobs {
		due, err := s.gron.IsDue(job.Expr, ref)
		if err != nil {
			s.log.WithError(err).WithField("job", job.Name).Error("cron evaluation failed")
			continue
		}
		if !due {
			continue
		}
		s.start(ctx, job)
	}
}

// start runs one job unless its previous run is still in flight
func (s *Scheduler) start(ctx context.Context, job Job) {
	s.mu.Lock()
	if s.running[job.Name] {
		s.mu.Unlock()
		s.log.WithField("job", job.Name).Warn("previous run still in flight, skipping this trigger")
		return
	}
	s.running[job.Name] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.running, job.Name)
			s.mu.Unlock()
		}()

		start := time.Now()
		s.log.WithField("job", job.Name).Info("scheduled run starting")
		job.Run(ctx)
		s.log.WithFields(logrus.Fields{
			"job":         job.Name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("scheduled run finished")
	}()
}
