package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create returns ErrAlreadyMarked when the employee already has a record for that day.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	// List returns records newest day first.
	List(ctx context.Context, filter Filter) ([]AttendanceWithEmployee, error)
	// ListRecent returns up to limit records of one employee, newest first. A zero limit returns all.
	ListRecent(ctx context.Context, employeeID string, limit int) ([]Attendance, error)
	// ListRecentForEmployees returns up to perEmployee records for each of the given employees.
	ListRecentForEmployees(ctx context.Context, employeeIDs []string, perEmployee int) (map[string][]Attendance, error)
	Update(ctx context.Context, id string, changes Changes) (Attendance, error)
	Summarize(ctx context.Context, filter Filter) (Summary, error)
	// CreateMissing closes a day: every employee without a record gets ABSENT,
	// or LEAVE when an approved leave covers the day.
	CreateMissing(ctx context.Context, date time.Time) (int64, error)
}
