// Command seed resets the database to a small development data set: one
// admin, two employees and a few attendance, leave and payroll records.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/config"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hris/dayflow-backend/internal/repository/postgresql"
	serviceAuth "github.com/dayflow-hris/dayflow-backend/internal/service/auth"
	"github.com/shopspring/decimal"
)

const defaultSeedPassword = "Password123!"

type seedEmployee struct {
	uid        string
	role       employee.Role
	firstName  string
	lastName   string
	email      string
	phone      string
	address    string
	jobTitle   string
	department string
	joined     string
}

var seedEmployees = []seedEmployee{
	{"admin-firebase-uid-001", employee.RoleAdmin, "John", "Admin", "admin@dayflow.com", "+1-555-0001", "123 Admin Street, New York, NY 10001", "HR Manager", "Human Resources", "2020-01-15"},
	{"employee-firebase-uid-001", employee.RoleEmployee, "Alice", "Johnson", "alice.johnson@dayflow.com", "+1-555-0002", "456 Employee Ave, New York, NY 10002", "Software Developer", "Engineering", "2022-03-20"},
	{"employee-firebase-uid-002", employee.RoleEmployee, "Bob", "Smith", "bob.smith@dayflow.com", "+1-555-0003", "789 Worker Blvd, New York, NY 10003", "Product Manager", "Product", "2021-07-10"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := seed(context.Background(), cfg); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database seeding completed")
}

func seed(ctx context.Context, cfg *config.Config) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `TRUNCATE leave_requests, attendance, payroll, employees, identities`); err != nil {
		return fmt.Errorf("clear tables: %w", err)
	}
	if _, err := db.Exec(ctx, `UPDATE employee_code_counter SET last_value = 0`); err != nil {
		return fmt.Errorf("reset employee codes: %w", err)
	}
	slog.Info("Cleared existing data")

	clock := calendar.NewClock(cfg.Location())
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	var provider auth.Provider
	if cfg.Auth.Provider == config.AuthProviderLocal {
		jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		if err != nil {
			return err
		}
		provider = serviceAuth.NewLocalProvider(postgresql.NewIdentityRepository(db), jwtService)
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = defaultSeedPassword
	}

	today := clock.Today()
	employees := make([]employee.Employee, 0, len(seedEmployees))
	for _, s := range seedEmployees {
		uid := s.uid
		if provider != nil {
			uid, err = provider.CreateUser(ctx, auth.CreateUserParams{
				Email:       s.email,
				Password:    password,
				DisplayName: s.firstName + " " + s.lastName,
			})
			if err != nil {
				return fmt.Errorf("create identity %s: %w", s.email, err)
			}
		}

		joined, _ := time.Parse(calendar.DateLayout, s.joined)
		seq, err := employeeRepo.NextCodeSequence(ctx)
		if err != nil {
			return err
		}
		emp, err := employeeRepo.Create(ctx, employee.Employee{
			EmployeeCode:  employee.FormatEmployeeCode(joined.Year(), seq),
			IdentityUID:   uid,
			Role:          s.role,
			FirstName:     s.firstName,
			LastName:      s.lastName,
			Email:         s.email,
			Phone:         ptr(s.phone),
			Address:       ptr(s.address),
			JobTitle:      ptr(s.jobTitle),
			Department:    ptr(s.department),
			DateOfJoining: &joined,
		})
		if err != nil {
			return fmt.Errorf("create employee %s: %w", s.email, err)
		}
		employees = append(employees, emp)
		slog.Info("Created employee", "email", emp.Email, "role", emp.Role, "code", emp.EmployeeCode, "uid", uid)
	}
	admin, alice, bob := employees[0], employees[1], employees[2]

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	attendanceDays := []struct {
		emp     employee.Employee
		days    int
		special int
		status  attendance.Status
		remarks string
	}{
		{alice, 5, 2, attendance.StatusHalfDay, "Doctor appointment in afternoon"},
		{bob, 3, 1, attendance.StatusAbsent, "Sick leave (not submitted through system)"},
	}
	for _, a := range attendanceDays {
		for i := 0; i < a.days; i++ {
			day := monthStart.AddDate(0, 0, i)
			record := attendance.Attendance{
				EmployeeID:   a.emp.ID,
				Date:         day,
				Status:       attendance.StatusPresent,
				CheckInTime:  ptr(day.Add(9 * time.Hour)),
				CheckOutTime: ptr(day.Add(18 * time.Hour)),
			}
			if i == a.special {
				record.Status = a.status
				record.Remarks = ptr(a.remarks)
			}
			if _, err := attendanceRepo.Create(ctx, record); err != nil {
				return fmt.Errorf("create attendance: %w", err)
			}
		}
	}
	slog.Info("Created attendance records")

	if _, err := leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:   alice.ID,
		LeaveType:    leave.TypePaid,
		StartDate:    monthStart.AddDate(0, 0, 9),
		EndDate:      monthStart.AddDate(0, 0, 11),
		NumberOfDays: decimal.NewFromInt(3),
		Reason:       "Vacation",
		Status:       leave.StatusPending,
	}); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}

	decided := []struct {
		request  leave.LeaveRequest
		decision leave.Decision
	}{
		{
			leave.LeaveRequest{
				EmployeeID:   alice.ID,
				LeaveType:    leave.TypeSick,
				StartDate:    monthStart.AddDate(0, -1, 4),
				EndDate:      monthStart.AddDate(0, -1, 5),
				NumberOfDays: decimal.NewFromInt(2),
				Reason:       "Medical checkup",
			},
			leave.Decision{Status: leave.StatusApproved, Comments: ptr("Approved"), DecidedAt: monthStart.AddDate(0, -1, 3)},
		},
		{
			leave.LeaveRequest{
				EmployeeID:   bob.ID,
				LeaveType:    leave.TypeUnpaid,
				StartDate:    monthStart.AddDate(0, -2, 14),
				EndDate:      monthStart.AddDate(0, -2, 19),
				NumberOfDays: decimal.NewFromInt(5),
				Reason:       "Personal reasons",
			},
			leave.Decision{Status: leave.StatusRejected, Comments: ptr("Cannot approve at this time"), DecidedAt: monthStart.AddDate(0, -2, 13)},
		},
	}
	for _, d := range decided {
		d.request.Status = leave.StatusPending
		created, err := leaveRepo.Create(ctx, d.request)
		if err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}
		d.decision.ApprovedByID = admin.ID
		if err := leaveRepo.Decide(ctx, created.ID, d.decision); err != nil {
			return fmt.Errorf("decide leave request: %w", err)
		}
	}
	slog.Info("Created leave requests")

	now := clock.Now()
	payrolls := []payroll.Payroll{
		{
			EmployeeID:    alice.ID,
			BaseSalary:    decimal.NewFromInt(80000),
			Allowances:    decimal.NewFromInt(10000),
			Deductions:    decimal.NewFromInt(5000),
			PaymentStatus: payroll.PaymentStatusPaid,
			PaymentDate:   &now,
		},
		{
			EmployeeID:    bob.ID,
			BaseSalary:    decimal.NewFromInt(95000),
			Allowances:    decimal.NewFromInt(12000),
			Deductions:    decimal.NewFromInt(6000),
			PaymentStatus: payroll.PaymentStatusPending,
		},
	}
	month, year := clock.CurrentPeriod()
	for _, p := range payrolls {
		p.Month, p.Year = month, year
		p.GrossSalary = payroll.GrossOf(p.BaseSalary, p.Allowances)
		p.NetSalary = payroll.NetOf(p.GrossSalary, p.Deductions)
		if _, err := payrollRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("create payroll: %w", err)
		}
	}
	slog.Info("Created payroll records")

	if provider != nil {
		slog.Info("Seeded identities share one password", "password", password)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
