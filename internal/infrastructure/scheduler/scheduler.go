// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package scheduler runs periodic jobs described by iCalendar recurrence
// rules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// Default recurrence rules of the periodic sweeps.
const (
	HourlyRule = "FREQ=HOURLY;BYMINUTE=0;BYSECOND=0"
	DailyRule  = "FREQ=DAILY;BYHOUR=7;BYMINUTE=0;BYSECOND=0"
)

// JobFunc is the body of a periodic job.
type JobFunc func(ctx context.Context) error

type job struct {
	name string
	rule *rrule.RRule
	run  JobFunc
}

// Scheduler runs each registered job at the occurrences of its rule. A job
// never overlaps with itself: an occurrence that passes while the previous
// run is still going is skipped.
type Scheduler struct {
	location *time.Location
	now      func() time.Time

	mu   sync.Mutex
	jobs []*job
	wg   sync.WaitGroup
}

// New creates a scheduler evaluating rules in location.
func New(location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		location: location,
		now:      time.Now,
	}
}

// ParseRule parses an RRULE string such as "FREQ=HOURLY;BYMINUTE=0".
func ParseRule(rule string) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}
	return r, nil
}

// NextOccurrence returns the first occurrence of rule strictly after t,
// evaluated in location. The zero time means the rule has no more
// occurrences.
func NextOccurrence(rule *rrule.RRule, t time.Time, location *time.Location) time.Time {
	local := t.In(location)
	rule.DTStart(local)
	return rule.After(local, false)
}

// Add registers a job. It must be called before Start.
func (s *Scheduler) Add(name, rule string, run JobFunc) error {
	r, err := ParseRule(rule)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &job{name: name, rule: r, run: run})
	return nil
}

// Start launches every registered job. Jobs stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, j)
		}()
	}
}

// Wait blocks until every job loop has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	ctx = logging.AppendCtx(ctx, slog.String("scheduled_job", j.name))

	for {
		now := s.now()
		next := NextOccurrence(j.rule, now, s.location)
		if next.IsZero() {
			slog.InfoContext(ctx, "recurrence rule has no more occurrences, stopping job")
			return
		}
		slog.DebugContext(ctx, "scheduled job waiting for next run", "next_run", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		start := time.Now()
		if err := j.run(ctx); err != nil {
			slog.ErrorContext(ctx, "scheduled job failed",
				"duration", time.Since(start).String(),
				logging.ErrKey, err)
			continue
		}
		slog.InfoContext(ctx, "scheduled job completed", "duration", time.Since(start).String())
	}
}
