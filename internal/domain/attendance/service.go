package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	ListMine(ctx context.Context, employeeID string, req ListAttendanceRequest) ([]AttendanceResponse, error)
	Mark(ctx context.Context, employeeID string, req MarkAttendanceRequest) (AttendanceResponse, error)
	MySummary(ctx context.Context, employeeID string) (SummaryResponse, error)
	List(ctx context.Context, req ListAttendanceRequest) ([]AttendanceResponse, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
	CloseDay(ctx context.Context, day time.Time) (int64, error)
}
