package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
)

const markAbsentInterval = 15 * time.Minute

// DayCloser fills in attendance for employees who did not mark a day.
type DayCloser interface {
	CloseDay(ctx context.Context, day time.Time) (int64, error)
}

type AttendanceJobs struct {
	closer   DayCloser
	clock    *calendar.Clock
	runAfter time.Duration

	mu         sync.Mutex
	lastClosed time.Time
}

// NewAttendanceJobs builds the daily close job. markAbsentAt is the local
// wall-clock time ("15:04") from which the previous weekday may be closed.
func NewAttendanceJobs(closer DayCloser, clock *calendar.Clock, markAbsentAt string) (*AttendanceJobs, error) {
	at, err := time.Parse("15:04", markAbsentAt)
	if err != nil {
		return nil, fmt.Errorf("invalid mark absent time %q: %w", markAbsentAt, err)
	}
	return &AttendanceJobs{
		closer:   closer,
		clock:    clock,
		runAfter: time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute,
	}, nil
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", markAbsentInterval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes the previous weekday once per day. Employees
// without a record get ABSENT, or LEAVE when an approved leave covers it.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.clock.Now()
	sinceMidnight := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute
	if sinceMidnight < j.runAfter {
		return nil
	}

	day := calendar.PreviousWeekday(j.clock.Today())

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastClosed.Equal(day) {
		return nil
	}

	slog.Info("Cron: closing attendance day", "date", calendar.FormatDate(day))
	created, err := j.closer.CloseDay(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to close attendance day %s: %w", calendar.FormatDate(day), err)
	}
	j.lastClosed = day

	slog.Info("Cron: attendance day closed", "date", calendar.FormatDate(day), "records_created", created)
	return nil
}
