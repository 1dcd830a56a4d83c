package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

const (
	employeePendingLeaves = 5
	adminPendingRequests  = 10
	adminRecentDecisions  = 5
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	payrollRepo    payroll.PayrollRepository
	clock          *calendar.Clock
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payrollRepo payroll.PayrollRepository,
	clock *calendar.Clock,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		attendanceRepo:      attendanceRepo,
		leaveRepo:           leaveRepo,
		payrollRepo:         payrollRepo,
		clock:               clock,
	}
}

// GetEmployeeDashboard runs its four reads in parallel.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, emp employee.Employee) (dashboard.EmployeeDashboardResponse, error) {
	today := s.clock.Today()
	month, year := s.clock.CurrentPeriod()
	from, to := calendar.MonthRange(month, year)

	var (
		todayAttendance *attendance.AttendanceResponse
		summary         attendance.SummaryResponse
		pendingLeaves   []leave.LeaveRequestResponse
		currentPayroll  *payroll.PayrollResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record, err := s.attendanceRepo.GetByEmployeeAndDate(gCtx, emp.ID, today)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return nil
			}
			return err
		}
		resp := attendance.NewAttendanceResponse(record)
		todayAttendance = &resp
		return nil
	})

	g.Go(func() error {
		stats, err := s.attendanceRepo.Summarize(gCtx, attendance.Filter{
			EmployeeID: &emp.ID,
			From:       &from,
			To:         &to,
		})
		if err != nil {
			return err
		}
		summary = attendance.NewSummaryResponse(stats, month, year)
		return nil
	})

	g.Go(func() error {
		pending := leave.StatusPending
		requests, err := s.leaveRepo.List(gCtx, leave.Filter{
			EmployeeID: &emp.ID,
			Status:     &pending,
			Limit:      employeePendingLeaves,
		})
		if err != nil {
			return err
		}
		pendingLeaves = leave.NewLeaveRequestResponses(requests)
		return nil
	})

	g.Go(func() error {
		record, err := s.payrollRepo.GetByPeriod(gCtx, emp.ID, month, year)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
				return nil
			}
			return err
		}
		resp := payroll.NewPayrollResponse(record)
		currentPayroll = &resp
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.EmployeeDashboardResponse{}, fmt.Errorf("failed to build employee dashboard: %w", err)
	}

	return dashboard.EmployeeDashboardResponse{
		Employee:          dashboard.NewEmployeeCard(emp),
		TodayAttendance:   todayAttendance,
		AttendanceSummary: summary,
		PendingLeaves:     pendingLeaves,
		CurrentPayroll:    currentPayroll,
	}, nil
}

// GetAdminDashboard combines the aggregate counters with the two leave queues.
func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (dashboard.AdminDashboardResponse, error) {
	today := s.clock.Today()

	var (
		counters dashboard.AdminCounters
		pending  []leave.LeaveRequestResponse
		recent   []leave.LeaveRequestResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		counters, err = s.GetAdminCounters(gCtx, today)
		return err
	})

	g.Go(func() error {
		status := leave.StatusPending
		requests, err := s.leaveRepo.List(gCtx, leave.Filter{Status: &status, Limit: adminPendingRequests})
		if err != nil {
			return err
		}
		pending = leave.NewLeaveRequestResponses(requests)
		return nil
	})

	g.Go(func() error {
		requests, err := s.leaveRepo.ListRecentlyDecided(gCtx, adminRecentDecisions)
		if err != nil {
			return err
		}
		recent = leave.NewLeaveRequestResponses(requests)
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboardResponse{}, fmt.Errorf("failed to build admin dashboard: %w", err)
	}

	return dashboard.AdminDashboardResponse{
		Date: calendar.FormatDate(today),
		Summary: dashboard.HeadcountSummary{
			TotalEmployees: counters.TotalEmployees,
			Admins:         counters.Admins,
			Employees:      counters.Employees,
		},
		Attendance: dashboard.AttendanceOverview{
			Today: dashboard.AttendanceToday{
				Present: counters.PresentToday,
				Absent:  counters.AbsentToday,
				HalfDay: counters.HalfDayToday,
				Leave:   counters.LeaveToday,
			},
			TotalRecordsToday: counters.TotalRecordsToday(),
		},
		Leaves: dashboard.LeaveOverview{
			Pending:         counters.PendingLeaves,
			PendingRequests: pending,
			RecentLeaves:    recent,
		},
		Payroll: dashboard.PayrollOverview{
			UnpaidCount: counters.UnpaidPayroll,
		},
	}, nil
}
