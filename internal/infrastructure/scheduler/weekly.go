// Package scheduler triggers recurring journal runs.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

// WeeklyScheduler fires a job once per week at the minute/hour/weekday taken
// from a five-field cron expression (day-of-month and month are ignored).
// Default expression: "0 17 * * 5", Friday 17:00.
type WeeklyScheduler struct {
	minute  int
	hour    int
	weekday time.Weekday
	loc     *time.Location
	stop    chan struct{}
}

var _ ports.Scheduler = (*WeeklyScheduler)(nil)

// NewWeeklyScheduler parses the cron expression; invalid specs fall back to
// Friday 17:00.
func NewWeeklyScheduler(spec string, loc *time.Location) *WeeklyScheduler {
	if loc == nil {
		loc = time.Local
	}
	minute, hour, weekday, err := parseSpec(spec)
	if err != nil {
		minute, hour, weekday = 0, 17, time.Friday
	}
	return &WeeklyScheduler{minute: minute, hour: hour, weekday: weekday, loc: loc}
}

func parseSpec(spec string) (minute, hour int, weekday time.Weekday, err error) {
	fields := strings.Fields(spec)
	if len(fields) != 5 {
		return 0, 0, 0, fmt.Errorf("cron expression needs 5 fields, got %d", len(fields))
	}

	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, 0, fmt.Errorf("invalid minute field %q", fields[0])
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, fmt.Errorf("invalid hour field %q", fields[1])
	}
	dow, err := strconv.Atoi(fields[4])
	if err != nil || dow < 0 || dow > 6 {
		return 0, 0, 0, fmt.Errorf("invalid day-of-week field %q", fields[4])
	}
	return minute, hour, time.Weekday(dow), nil
}

// Start launches the trigger goroutine. Start is idempotent while running.
func (s *WeeklyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		for {
			next := s.nextTrigger(time.Now().In(s.loc))
			timer := time.NewTimer(time.Until(next))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the trigger goroutine.
func (s *WeeklyScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}

// nextTrigger returns the first scheduled instant strictly after now.
func (s *WeeklyScheduler) nextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	days := (int(s.weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
