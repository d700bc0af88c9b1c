// Package scheduler runs the periodic housekeeping sweeps.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/metrics"
)

// Job is one sweep. Run returns how many items it removed.
type Job struct {
	Name string
	Run  func() int
}

// SessionSweeper is satisfied by *service.Sessions.
type SessionSweeper interface {
	SweepPending(ttl time.Duration) int
	SweepIdle(ttl time.Duration) int
}

// DashboardSweeper is satisfied by *service.CourierService.
type DashboardSweeper interface {
	SweepIdle(ttl time.Duration) int
}

// TTLs for the standard sweeps.
type TTLs struct {
	PendingOrder time.Duration
	Session      time.Duration
	Dashboard    time.Duration
}

// Sweeps returns the standard housekeeping jobs.
func Sweeps(sessions SessionSweeper, dashboards DashboardSweeper, ttl TTLs) []Job {
	return []Job{
		{Name: "pending_orders", Run: func() int { return sessions.SweepPending(ttl.PendingOrder) }},
		{Name: "sessions", Run: func() int { return sessions.SweepIdle(ttl.Session) }},
		{Name: "dashboards", Run: func() int { return dashboards.SweepIdle(ttl.Dashboard) }},
	}
}

// Scheduler wraps a gocron scheduler running every job on one interval.
type Scheduler struct {
	s   gocron.Scheduler
	log logrus.FieldLogger
}

func Start(interval time.Duration, log logrus.FieldLogger, jobs ...Job) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sch := &Scheduler{s: s, log: log}

	for _, job := range jobs {
		job := job
		_, err = s.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() { sch.run(job) }),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}

	s.Start()
	log.WithFields(logrus.Fields{"jobs": len(jobs), "interval": interval.String()}).Info("sweep scheduler started")
	return sch, nil
}

func (sch *Scheduler) run(job Job) {
	n := job.Run()
	if n == 0 {
		return
	}
	metrics.SweptTotal.WithLabelValues(job.Name).Add(float64(n))
	sch.log.WithFields(logrus.Fields{"job": job.Name, "removed": n}).Info("sweep")
}

func (sch *Scheduler) Shutdown() error {
	return sch.s.Shutdown()
}
