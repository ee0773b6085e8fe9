package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpiredReaper deletes durable rows whose expiry window lapsed.
type ExpiredReaper interface {
	DeleteExpiredMemory(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically reaps expired memory-only project rows. Session
// records need no sweep; redis TTL handles them.
type Sweeper struct {
	projects ExpiredReaper
	interval time.Duration
	log      *logrus.Logger
	cron     *cron.Cron
}

func NewSweeper(projects ExpiredReaper, interval time.Duration, log *logrus.Logger) *Sweeper {
	return &Sweeper{
		projects: projects,
		interval: interval,
		log:      log,
	}
}

// Start initializes the sweep schedule and runs one sweep immediately so a
// restart does not leave a backlog until the first tick.
func (s *Sweeper) Start() {
	s.cron = cron.New()

	_, err := s.cron.AddFunc("@every "+s.interval.String(), s.sweep)
	if err != nil {
		s.log.WithError(err).Error("failed to schedule expiry sweep")
		return
	}

	s.log.WithField("interval", s.interval.String()).Info("expiry sweeper started")
	s.cron.Start()
	s.sweep()
}

// Stop halts the schedule; a sweep already in flight finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.projects.DeleteExpiredMemory(ctx, time.Now().UTC())
	if err != nil {
		s.log.WithError(err).Error("expiry sweep failed")
		return
	}
	if n > 0 {
		s.log.WithField("deleted", n).Info("expired memory-only projects reaped")
	}
}
