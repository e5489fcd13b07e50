package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultScheduleZone = "Asia/Jakarta"
	DefaultScheduleTick = time.Minute
)

// Drainer starts a queue drain.
type Drainer interface {
	Drain(ctx context.Context, trigger Trigger) error
}

type SchedulerConfig struct {
	Location *time.Location
	Tick     time.Duration
}

// Scheduler resets every account at local midnight and starts an
// unfiltered drain.
type Scheduler struct {
	store     ports.AccountStore
	drainer   Drainer
	clock     ports.Clock
	logger    logrus.FieldLogger
	location  *time.Location
	tick      time.Duration
	newTicker func(d time.Duration) (<-chan time.Time, func())

	mu        sync.Mutex
	lastReset string
	drains    sync.WaitGroup
}

func NewScheduler(store ports.AccountStore, drainer Drainer, clock ports.Clock, cfg SchedulerConfig, logger logrus.FieldLogger) *Scheduler {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.Location == nil {
		location, err := LoadLocation(DefaultScheduleZone)
		if err != nil {
			location = time.UTC
		}
		cfg.Location = location
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultScheduleTick
	}

	return &Scheduler{
		store:     store,
		drainer:   drainer,
		clock:     clock,
		logger:    logger.WithField("component", "scheduler"),
		location:  cfg.Location,
		tick:      cfg.Tick,
		newTicker: systemTicker,
	}
}

// LoadLocation resolves a zone name, falling back to the default zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultScheduleZone
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load schedule time zone %q: %w", name, err)
	}

	return location, nil
}

// Run ticks until ctx is done, then waits for drains it started.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks, stop := s.newTicker(s.tick)
	defer stop()

	s.logger.WithFields(logrus.Fields{
		"zone": s.location.String(),
		"tick": s.tick,
	}).Info("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.drains.Wait()
			return nil
		case <-ticks:
			s.Tick(ctx, s.clock.Now())
		}
	}
}

// Tick fires the daily reset when now falls in the first minute of the day in
// the scheduler's zone. It fires at most once per calendar day; a failed reset
// is retried by later ticks in the same minute.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) bool {
	local := now.In(s.location)
	if local.Hour() != 0 || local.Minute() != 0 {
		return false
	}

	day := local.Format(time.DateOnly)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReset == day {
		return false
	}

	s.logger.WithField("at", local.Format(time.RFC3339)).Info("daily reset triggered")
	if err := s.store.ResetAllStatuses(ctx); err != nil {
		s.logger.WithError(err).Error("reset account statuses, retrying next tick")
		return false
	}
	s.lastReset = day

	s.drains.Add(1)
	go func() {
		defer s.drains.Done()
		err := s.drainer.Drain(ctx, Trigger{})
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, domain.ErrQueueBusy):
			s.logger.Info("daily drain skipped, a run is already active")
		default:
			s.logger.WithError(err).Warn("daily drain ended with error")
		}
	}()

	return true
}

// Wait blocks until drains started by Tick return.
func (s *Scheduler) Wait() {
	s.drains.Wait()
}

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(d)
	return ticker.C, ticker.Stop
}
