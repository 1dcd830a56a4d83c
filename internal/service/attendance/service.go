package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock *calendar.Clock
}

func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, clock *calendar.Clock) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		clock:                clock,
	}
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, employeeID string, req attendance.ListAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	req.EmployeeID = nil
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.Filter()
	filter.EmployeeID = &employeeID

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendance.NewAttendanceResponse(rec.Attendance))
	}
	return out, nil
}

// Mark implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Mark(ctx context.Context, employeeID string, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	today := a.clock.Today()

	_, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyMarked
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	record := attendance.Attendance{
		EmployeeID:   employeeID,
		Date:         today,
		Status:       req.StatusOrDefault(),
		CheckInTime:  req.CheckIn(),
		CheckOutTime: req.CheckOut(),
		Remarks:      nonEmpty(req.Remarks),
	}

	// Concurrent marks race on the (employee_id, date) unique index; the
	// repository reports the loser as ErrAlreadyMarked.
	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(created), nil
}

// MySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MySummary(ctx context.Context, employeeID string) (attendance.SummaryResponse, error) {
	month, year := a.clock.CurrentPeriod()
	from, to := calendar.MonthRange(month, year)

	summary, err := a.AttendanceRepository.Summarize(ctx, attendance.Filter{
		EmployeeID: &employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return attendance.NewSummaryResponse(summary, month, year), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, req attendance.ListAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.List(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendance.NewAttendanceWithEmployeeResponse(rec))
	}
	return out, nil
}

// Update implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	changes := req.Changes()

	// Only one side may be changing; compare against the stored value.
	checkIn, checkOut := existing.CheckInTime, existing.CheckOutTime
	if changes.CheckInTime != nil {
		checkIn = changes.CheckInTime
	}
	if changes.CheckOutTime != nil {
		checkOut = changes.CheckOutTime
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "check_out_time",
			Message: attendance.ErrCheckOutBeforeIn.Error(),
		}}
	}

	updated, err := a.AttendanceRepository.Update(ctx, req.ID, changes)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// CloseDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CloseDay(ctx context.Context, day time.Time) (int64, error) {
	day = calendar.Day(day)
	if !day.Before(a.clock.Today()) {
		return 0, fmt.Errorf("cannot close %s: day has not ended", calendar.FormatDate(day))
	}

	created, err := a.AttendanceRepository.CreateMissing(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to close attendance day: %w", err)
	}
	return created, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
