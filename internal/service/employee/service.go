package employee

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hris/dayflow-backend/internal/service/file"
	"golang.org/x/sync/errgroup"
)

const (
	profileAttendanceLimit = 10
	listAttendanceLimit    = 5

	temporaryPasswordLength  = 12
	temporaryPasswordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%"

	credentialsNote = "Share this temporary password with the employee securely. It must be changed at first login."
)

// Transactor runs fn in a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	payrollRepo    payroll.PayrollRepository
	identity       auth.Provider
	fileService    file.FileService
	emailService   email.EmailService
	tx             Transactor
	clock          *calendar.Clock
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payrollRepo payroll.PayrollRepository,
	identity auth.Provider,
	fileService file.FileService,
	emailService email.EmailService,
	tx Transactor,
	clock *calendar.Clock,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		payrollRepo:    payrollRepo,
		identity:       identity,
		fileService:    fileService,
		emailService:   emailService,
		tx:             tx,
		clock:          clock,
	}
}

// GetMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context, employeeID string) (employee.ProfileResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.ProfileResponse{}, err
	}

	recent, err := s.attendanceRepo.ListRecent(ctx, employeeID, profileAttendanceLimit)
	if err != nil {
		return employee.ProfileResponse{}, fmt.Errorf("failed to load recent attendance: %w", err)
	}

	return employee.ProfileResponse{
		EmployeeResponse: employee.NewEmployeeResponse(emp),
		RecentAttendance: attendance.NewAttendanceResponses(recent),
	}, nil
}

// UpdateMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateMyProfile(ctx context.Context, employeeID string, req employee.UpdateMyProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.applyChanges(ctx, employeeID, req.Changes())
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// UploadAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadAvatar(ctx context.Context, employeeID string, r io.Reader, filename string) (employee.EmployeeResponse, error) {
	stored, err := s.fileService.UploadAvatar(ctx, employeeID, r, filename)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.Update(ctx, employeeID, employee.Changes{ProfilePictureURL: &stored.URL})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Key); delErr != nil {
			slog.Error("failed to remove orphaned avatar", "key", stored.Key, "error", delErr)
		}
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}
	if exists {
		return employee.CreateEmployeeResponse{}, employee.ErrEmailExists
	}

	exists, err = s.identity.EmailExists(ctx, req.Email)
	if err != nil {
		return employee.CreateEmployeeResponse{}, fmt.Errorf("failed to check identity provider: %w", err)
	}
	if exists {
		return employee.CreateEmployeeResponse{}, auth.ErrEmailExists
	}

	password, err := generateTemporaryPassword()
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		Role:       employee.RoleEmployee,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      &req.Phone,
		Address:    req.Address,
		JobTitle:   &req.JobTitle,
		Department: &req.Department,
	}
	newEmployee.DateOfBirth = parseOptionalDate(req.DateOfBirth)
	newEmployee.DateOfJoining = parseOptionalDate(req.DateOfJoining)
	if newEmployee.DateOfJoining == nil {
		today := s.clock.Today()
		newEmployee.DateOfJoining = &today
	}

	uid, err := s.identity.CreateUser(ctx, auth.CreateUserParams{
		Email:              req.Email,
		Password:           password,
		DisplayName:        newEmployee.FullName(),
		MustChangePassword: true,
	})
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}
	newEmployee.IdentityUID = uid

	var created employee.Employee
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		seq, err := s.employeeRepo.NextCodeSequence(txCtx)
		if err != nil {
			return err
		}
		newEmployee.EmployeeCode = employee.FormatEmployeeCode(s.clock.Now().Year(), seq)

		created, err = s.employeeRepo.Create(txCtx, newEmployee)
		return err
	})
	if err != nil {
		if delErr := s.identity.DeleteUser(ctx, uid); delErr != nil {
			slog.Error("failed to roll back identity after employee insert failure", "uid", uid, "error", delErr)
		}
		return employee.CreateEmployeeResponse{}, err
	}

	s.sendWelcome(ctx, created, password)

	return employee.CreateEmployeeResponse{
		Employee: employee.NewEmployeeResponse(created),
		Credentials: employee.Credentials{
			TemporaryPassword: password,
			Note:              credentialsNote,
		},
	}, nil
}

func (s *EmployeeServiceImpl) sendWelcome(ctx context.Context, emp employee.Employee, password string) {
	if s.emailService == nil {
		return
	}
	err := s.emailService.SendWelcome(ctx, email.WelcomeData{
		To:                emp.Email,
		EmployeeName:      emp.FullName(),
		EmployeeCode:      emp.EmployeeCode,
		TemporaryPassword: password,
	})
	if err != nil {
		slog.Error("failed to send welcome email", "employee_id", emp.ID, "error", err)
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeListItem, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	var (
		recent map[string][]attendance.Attendance
		latest map[string]payroll.Payroll
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recent, err = s.attendanceRepo.ListRecentForEmployees(gctx, ids, listAttendanceLimit)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.payrollRepo.LatestForEmployees(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load employee activity: %w", err)
	}

	items := make([]employee.EmployeeListItem, 0, len(employees))
	for _, emp := range employees {
		item := employee.EmployeeListItem{
			EmployeeResponse: employee.NewEmployeeResponse(emp),
			RecentAttendance: attendance.NewAttendanceResponses(recent[emp.ID]),
		}
		if p, ok := latest[emp.ID]; ok {
			resp := payroll.NewPayrollResponse(p)
			item.LatestPayroll = &resp
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeDetailResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeDetailResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	var (
		records  []attendance.Attendance
		requests []leave.LeaveRequestWithNames
		payrolls []payroll.PayrollWithEmployee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListRecent(gctx, id, 0)
		return err
	})
	g.Go(func() error {
		var err error
		requests, err = s.leaveRepo.List(gctx, leave.Filter{EmployeeID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		payrolls, err = s.payrollRepo.List(gctx, payroll.Filter{EmployeeID: &id})
		return err
	})
	if err := g.Wait(); err != nil {
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to load employee details: %w", err)
	}

	return employee.EmployeeDetailResponse{
		EmployeeResponse: employee.NewEmployeeResponse(emp),
		Attendance:       attendance.NewAttendanceResponses(records),
		LeaveRequests:    leave.NewLeaveRequestResponses(requests),
		Payroll:          payroll.NewPayrollResponses(payrolls),
	}, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) == 1 && verrs[0].Field == "id" {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, err
	}

	changes := req.Changes()
	if changes.Email != nil {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, *changes.Email, req.ID)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	updated, err := s.applyChanges(ctx, req.ID, changes)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// GetByIdentityUID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByIdentityUID(ctx context.Context, uid string) (employee.Employee, error) {
	return s.employeeRepo.GetByIdentityUID(ctx, uid)
}

func (s *EmployeeServiceImpl) applyChanges(ctx context.Context, id string, changes employee.Changes) (employee.Employee, error) {
	if changes.IsEmpty() {
		return s.employeeRepo.GetByID(ctx, id)
	}
	return s.employeeRepo.Update(ctx, id, changes)
}

func generateTemporaryPassword() (string, error) {
	limit := big.NewInt(int64(len(temporaryPasswordCharset)))
	buf := make([]byte, temporaryPasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		buf[i] = temporaryPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &t
}
