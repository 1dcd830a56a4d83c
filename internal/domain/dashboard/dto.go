package dashboard

import (
	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
)

// ========== EMPLOYEE DASHBOARD ==========

type EmployeeDashboardResponse struct {
	Employee          EmployeeCard                   `json:"employee"`
	TodayAttendance   *attendance.AttendanceResponse `json:"today_attendance"`
	AttendanceSummary attendance.SummaryResponse     `json:"attendance_summary"`
	PendingLeaves     []leave.LeaveRequestResponse   `json:"pending_leaves"`
	CurrentPayroll    *payroll.PayrollResponse       `json:"current_payroll"`
}

// EmployeeCard is the subset of the profile shown on the dashboard
type EmployeeCard struct {
	ID                string  `json:"id"`
	EmployeeCode      string  `json:"employee_code"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	JobTitle          *string `json:"job_title"`
	Department        *string `json:"department"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func NewEmployeeCard(e employee.Employee) EmployeeCard {
	return EmployeeCard{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Email:             e.Email,
		JobTitle:          e.JobTitle,
		Department:        e.Department,
		ProfilePictureURL: e.ProfilePictureURL,
	}
}

// ========== ADMIN DASHBOARD ==========

type AdminDashboardResponse struct {
	Date       string             `json:"date"`
	Summary    HeadcountSummary   `json:"summary"`
	Attendance AttendanceOverview `json:"attendance"`
	Leaves     LeaveOverview      `json:"leaves"`
	Payroll    PayrollOverview    `json:"payroll"`
}

type HeadcountSummary struct {
	TotalEmployees int `json:"total_employees"`
	Admins         int `json:"admins"`
	Employees      int `json:"employees"`
}

type AttendanceToday struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
	Leave   int `json:"leave"`
}

type AttendanceOverview struct {
	Today             AttendanceToday `json:"today"`
	TotalRecordsToday int             `json:"total_records_today"`
}

type LeaveOverview struct {
	Pending         int                          `json:"pending"`
	PendingRequests []leave.LeaveRequestResponse `json:"pending_requests"`
	RecentLeaves    []leave.LeaveRequestResponse `json:"recent_leaves"`
}

type PayrollOverview struct {
	UnpaidCount int `json:"unpaid_count"`
}
