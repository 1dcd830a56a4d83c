package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	days []time.Time
	err  error
}

func (r *recordingCloser) CloseDay(ctx context.Context, day time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.days = append(r.days, day)
	return 3, nil
}

func TestMarkAbsentEmployees_ClosesPreviousWeekdayOnce(t *testing.T) {
	// Monday 2026-03-09 01:00 local
	loc := time.FixedZone("WIB", 7*60*60)
	clock := calendar.NewFixedClock(time.Date(2026, 3, 9, 1, 0, 0, 0, loc), loc)
	closer := &recordingCloser{}

	jobs, err := NewAttendanceJobs(closer, clock, "00:30")
	require.NoError(t, err)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	require.Len(t, closer.days, 1)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), closer.days[0])
}

func TestMarkAbsentEmployees_WaitsUntilConfiguredTime(t *testing.T) {
	loc := time.UTC
	clock := calendar.NewFixedClock(time.Date(2026, 3, 10, 0, 10, 0, 0, loc), loc)
	closer := &recordingCloser{}

	jobs, err := NewAttendanceJobs(closer, clock, "00:30")
	require.NoError(t, err)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	assert.Empty(t, closer.days)
}

func TestMarkAbsentEmployees_RetriesAfterFailure(t *testing.T) {
	loc := time.UTC
	clock := calendar.NewFixedClock(time.Date(2026, 3, 10, 2, 0, 0, 0, loc), loc)
	closer := &recordingCloser{err: errors.New("db down")}

	jobs, err := NewAttendanceJobs(closer, clock, "00:30")
	require.NoError(t, err)

	assert.Error(t, jobs.MarkAbsentEmployees(context.Background()))

	closer.err = nil
	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, closer.days, 1)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), closer.days[0])
}

func TestNewAttendanceJobs_InvalidTime(t *testing.T) {
	_, err := NewAttendanceJobs(&recordingCloser{}, calendar.NewClock(time.UTC), "25:99")
	assert.Error(t, err)
}

func TestScheduler_RegisterAndRunOnce(t *testing.T) {
	clock := calendar.NewFixedClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), time.UTC)
	closer := &recordingCloser{}
	jobs, err := NewAttendanceJobs(closer, clock, "00:30")
	require.NoError(t, err)

	scheduler := NewScheduler(context.Background())
	jobs.RegisterJobs(scheduler)
	assert.Equal(t, []string{"mark_absent_employees"}, scheduler.Jobs())

	require.NoError(t, scheduler.RunOnce(context.Background()))
	assert.Len(t, closer.days, 1)
}
