package dashboard

import (
	"context"
	"time"
)

// AdminCounters combines the organisation-wide counts in a single query.
type AdminCounters struct {
	TotalEmployees int
	Admins         int
	Employees      int

	PresentToday int
	AbsentToday  int
	HalfDayToday int
	LeaveToday   int

	PendingLeaves int
	UnpaidPayroll int
}

// TotalRecordsToday is the number of attendance rows for the day.
func (c AdminCounters) TotalRecordsToday() int {
	return c.PresentToday + c.AbsentToday + c.HalfDayToday + c.LeaveToday
}

type DashboardRepository interface {
	GetAdminCounters(ctx context.Context, today time.Time) (AdminCounters, error)
}
