package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminEmployee = employee.Employee{ID: "emp-admin", IdentityUID: "uid-admin", Role: employee.RoleAdmin, FirstName: "John", LastName: "Admin"}
	staffEmployee = employee.Employee{ID: "emp-staff", IdentityUID: "uid-staff", Role: employee.RoleEmployee, FirstName: "Alice", LastName: "Johnson"}
)

type tokenVerifier map[string]auth.Identity

func (v tokenVerifier) VerifyToken(ctx context.Context, token string) (auth.Identity, error) {
	identity, ok := v[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return identity, nil
}

type employeeDirectory struct {
	employee.EmployeeService
}

func (employeeDirectory) GetByIdentityUID(ctx context.Context, uid string) (employee.Employee, error) {
	switch uid {
	case adminEmployee.IdentityUID:
		return adminEmployee, nil
	case staffEmployee.IdentityUID:
		return staffEmployee, nil
	}
	return employee.Employee{}, employee.ErrEmployeeRecordNotFound
}

func (employeeDirectory) GetMyProfile(ctx context.Context, employeeID string) (employee.ProfileResponse, error) {
	return employee.ProfileResponse{EmployeeResponse: employee.EmployeeResponse{ID: employeeID}}, nil
}

type stubAttendanceService struct {
	attendance.AttendanceService
	gotList attendance.ListAttendanceRequest
}

func (s *stubAttendanceService) ListMine(ctx context.Context, employeeID string, req attendance.ListAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	s.gotList = req
	return []attendance.AttendanceResponse{}, nil
}

func (s *stubAttendanceService) Mark(ctx context.Context, employeeID string, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.AttendanceResponse{EmployeeID: employeeID, Status: req.StatusOrDefault()}, nil
}

type stubLeaveService struct {
	leave.LeaveService
	approver leave.Approver
}

func (s *stubLeaveService) Apply(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.LeaveRequestResponse{EmployeeID: employeeID, Status: leave.StatusPending}, nil
}

func (s *stubLeaveService) Decide(ctx context.Context, approver leave.Approver, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	s.approver = approver
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.LeaveRequestResponse{ID: req.ID, Status: leave.Status(req.Status)}, nil
}

type stubPayrollService struct {
	payroll.PayrollService
	requester payroll.Requester
}

func (s *stubPayrollService) Payslip(ctx context.Context, requester payroll.Requester, id string) (payroll.PayslipFile, error) {
	s.requester = requester
	if id == "someone-else" && !requester.IsAdmin {
		return payroll.PayslipFile{}, payroll.ErrPayslipForbidden
	}
	return payroll.PayslipFile{Filename: "payslip-EMP-2026-0002-2026-03.pdf", Content: []byte("%PDF-1.3 test")}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) GetEmployeeDashboard(ctx context.Context, emp employee.Employee) (dashboard.EmployeeDashboardResponse, error) {
	return dashboard.EmployeeDashboardResponse{Employee: dashboard.NewEmployeeCard(emp)}, nil
}

func (stubDashboardService) GetAdminDashboard(ctx context.Context) (dashboard.AdminDashboardResponse, error) {
	return dashboard.AdminDashboardResponse{Date: "2026-03-10"}, nil
}

type stubAccountService struct{}

func (stubAccountService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "secret-pass" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{AccessToken: "token", TokenType: "Bearer"}, nil
}

func (stubAccountService) ChangePassword(ctx context.Context, uid string, req auth.ChangePasswordRequest) error {
	return nil
}

type routerFixture struct {
	handler    http.Handler
	attendance *stubAttendanceService
	leave      *stubLeaveService
	payroll    *stubPayrollService
}

func newRouterFixture(t *testing.T, cfg RouterConfig, withAuth bool) *routerFixture {
	t.Helper()
	f := &routerFixture{
		attendance: &stubAttendanceService{},
		leave:      &stubLeaveService{},
		payroll:    &stubPayrollService{},
	}
	directory := employeeDirectory{}
	handlers := Handlers{
		Employee:   NewEmployeeHandler(directory),
		Attendance: NewAttendanceHandler(f.attendance),
		Leave:      NewLeaveHandler(f.leave),
		Payroll:    NewPayrollHandler(f.payroll),
		Dashboard:  NewDashboardHandler(stubDashboardService{}),
	}
	if withAuth {
		handlers.Auth = NewAuthHandler(stubAccountService{})
	}
	verifier := tokenVerifier{
		"admin-token": {UID: adminEmployee.IdentityUID},
		"staff-token": {UID: staffEmployee.IdentityUID},
		"ghost-token": {UID: "uid-ghost"},
	}
	f.handler = NewRouter(cfg, verifier, directory, handlers)
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthAndFallbacks(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{Env: "test"}, false)

	rec := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Dayflow Backend is running"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = f.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeResponse(t, rec).Error.Message)

	rec = f.do(http.MethodDelete, "/health", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", "", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccessLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	f := newRouterFixture(t, RouterConfig{Env: "test", Logger: slog.New(slog.NewJSONHandler(&buf, nil))}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/me", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestAuthenticationAndRoles(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{Env: "test"}, false)

	rec := f.do(http.MethodGet, "/api/employees/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/employees/me", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeResponse(t, rec).Error.Message)

	rec = f.do(http.MethodGet, "/api/employees/me", "ghost-token", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/employees/me", "staff-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/dashboard/admin", "staff-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/api/dashboard/admin", "admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/dashboard/employee", "admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDevHeaderMode(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{Env: "development", DevHeaderAuth: true}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/employee", nil)
	req.Header.Set("X-Firebase-UID", staffEmployee.IdentityUID)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/dashboard/employee", "staff-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDevHeaderModeOutsideDevelopment(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{Env: "production", DevHeaderAuth: true}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/employee", nil)
	req.Header.Set("X-Firebase-UID", staffEmployee.IdentityUID)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Development authentication is disabled", decodeResponse(t, rec).Error.Message)
}

func TestAttendanceQueryParsing(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{}, false)

	rec := f.do(http.MethodGet, "/api/attendance/my?month=march&year=2026", "staff-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Error.Details, "month")

	rec = f.do(http.MethodGet, "/api/attendance/my?month=3&year=2026", "staff-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.attendance.gotList.Month)
	assert.Equal(t, 3, *f.attendance.gotList.Month)

	rec = f.do(http.MethodPost, "/api/attendance/mark", "staff-token", "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/attendance/mark", "staff-token", `{"status":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", decodeResponse(t, rec).Error.Message)
}

func TestLeaveEndpoints(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{}, false)

	rec := f.do(http.MethodPost, "/api/leaves", "staff-token",
		`{"leave_type":"PAID","start_date":"2026-03-16","end_date":"2026-03-17","reason":"Trip"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/leaves", "staff-token", `{"leave_type":"PAID"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	id := "0195a3c4-0000-7000-8000-000000000010"
	rec = f.do(http.MethodPut, "/api/leaves/"+id, "staff-token", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPut, "/api/leaves/"+id, "admin-token", `{"status":"MAYBE"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", decodeResponse(t, rec).Error.Message)

	rec = f.do(http.MethodPut, "/api/leaves/"+id, "admin-token", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Leave request approved successfully", decodeResponse(t, rec).Message)
	assert.Equal(t, leave.Approver{EmployeeID: "emp-admin", Name: "John Admin"}, f.leave.approver)
}

func TestPayslipDownload(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{}, false)

	rec := f.do(http.MethodGet, "/api/payroll/mine-1/payslip", "staff-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslip-EMP-2026-0002-2026-03.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
	assert.Equal(t, payroll.Requester{EmployeeID: "emp-staff"}, f.payroll.requester)

	rec = f.do(http.MethodGet, "/api/payroll/someone-else/payslip", "staff-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/api/payroll/someone-else/payslip", "admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRoutes(t *testing.T) {
	f := newRouterFixture(t, RouterConfig{}, true)

	rec := f.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@dayflow.com","password":"secret-pass"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@dayflow.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/change-password", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/change-password", "staff-token", `{"current_password":"secret-pass","new_password":"another-pass"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimitAndUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "avatars"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "avatars", "a.jpg"), []byte("jpeg-bytes"), 0o644))

	f := newRouterFixture(t, RouterConfig{BodyLimitBytes: 32, UploadsDir: dir}, false)

	rec := f.do(http.MethodGet, "/uploads/avatars/a.jpg", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())

	rec = f.do(http.MethodPost, "/api/leaves", "staff-token",
		`{"leave_type":"PAID","start_date":"2026-03-16","end_date":"2026-03-17","reason":"a long enough reason to overflow"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
