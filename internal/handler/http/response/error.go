package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "Missing or invalid Authorization header")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrIdentityNotFound):
		Unauthorized(w, "Identity not found")
	case errors.Is(err, auth.ErrSamePassword):
		BadRequest(w, "New password must differ from the current password", nil)
	case errors.Is(err, auth.ErrMissingDevUID):
		BadRequest(w, "X-Firebase-UID header is required in development mode", nil)
	case errors.Is(err, auth.ErrDevAuthNotPermitted):
		Forbidden(w, "Development authentication is disabled")
	case errors.Is(err, auth.ErrEmailExists):
		Conflict(w, "Email already exists in authentication system")
	case errors.Is(err, auth.ErrProviderUnavailable):
		ServiceUnavailable(w, "Identity provider is temporarily unavailable")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeRecordNotFound):
		NotFound(w, "Employee record not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInsufficientRole):
		Forbidden(w, "Insufficient permissions to access this resource")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already exists")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrIdentityAlreadyLinked):
		Conflict(w, "Identity already linked to an employee")
	case errors.Is(err, employee.ErrInvalidAvatar):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Conflict(w, "Attendance already marked for today")
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		ValidationError(w, map[string]string{"check_out_time": err.Error()})

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDecisionStatus):
		BadRequest(w, "Invalid status", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrNoPayrollForCurrentMonth):
		NotFound(w, "No payroll record found for the current month")
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrPayslipForbidden):
		Forbidden(w, "You can only download your own payslips")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
