package employee

import (
	"strings"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	JobTitle      string  `json:"job_title"`
	Position      string  `json:"position,omitempty"`
	Department    string  `json:"department"`
	DateOfBirth   *string `json:"date_of_birth,omitempty"`
	DateOfJoining *string `json:"date_of_joining,omitempty"`
	Address       *string `json:"address,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	// position is accepted as an alias of job_title
	if validator.IsEmpty(r.JobTitle) {
		r.JobTitle = r.Position
	}

	required := []struct {
		field string
		value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"email", r.Email},
		{"phone", r.Phone},
		{"job_title", r.JobTitle},
		{"department", r.Department},
	}
	for _, f := range required {
		if validator.IsEmpty(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}

	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if !validator.IsEmpty(r.Phone) && !validator.IsValidPhone(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if dob, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_birth",
				Message: "date_of_birth must be in YYYY-MM-DD format",
			})
		} else if dob.After(time.Now()) {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_birth",
				Message: "date_of_birth must be in the past",
			})
		}
	}
	if r.DateOfJoining != nil && *r.DateOfJoining != "" {
		if _, ok := validator.IsValidDate(*r.DateOfJoining); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_joining",
				Message: "date_of_joining must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateMyProfileRequest carries the fields an employee may change on their
// own record. Empty values are ignored.
type UpdateMyProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Address           *string `json:"address,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

func (r *UpdateMyProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Phone != nil && !validator.IsEmpty(*r.Phone) && !validator.IsValidPhone(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Changes drops empty values.
func (r UpdateMyProfileRequest) Changes() Changes {
	return Changes{
		FirstName:         nonEmpty(r.FirstName),
		LastName:          nonEmpty(r.LastName),
		Phone:             nonEmpty(r.Phone),
		Address:           nonEmpty(r.Address),
		ProfilePictureURL: nonEmpty(r.ProfilePictureURL),
	}
}

type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.Email != nil && !validator.IsEmpty(*r.Email) {
		normalized := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &normalized
		if !validator.IsValidEmail(normalized) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must be a valid email address",
			})
		}
	}
	if r.Phone != nil && !validator.IsEmpty(*r.Phone) && !validator.IsValidPhone(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}
	if r.Role != nil && !validator.IsEmpty(*r.Role) && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: ADMIN, EMPLOYEE",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r UpdateEmployeeRequest) Changes() Changes {
	changes := Changes{
		FirstName:  nonEmpty(r.FirstName),
		LastName:   nonEmpty(r.LastName),
		Email:      nonEmpty(r.Email),
		Phone:      nonEmpty(r.Phone),
		Address:    nonEmpty(r.Address),
		JobTitle:   nonEmpty(r.JobTitle),
		Department: nonEmpty(r.Department),
	}
	if role := nonEmpty(r.Role); role != nil {
		rr := Role(*role)
		changes.Role = &rr
	}
	return changes
}

type EmployeeResponse struct {
	ID                string    `json:"id"`
	EmployeeCode      string    `json:"employee_code"`
	IdentityUID       string    `json:"identity_uid"`
	Role              Role      `json:"role"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             *string   `json:"phone"`
	Address           *string   `json:"address"`
	DateOfBirth       *string   `json:"date_of_birth"`
	JobTitle          *string   `json:"job_title"`
	Department        *string   `json:"department"`
	DateOfJoining     *string   `json:"date_of_joining"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		IdentityUID:       e.IdentityUID,
		Role:              e.Role,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Email:             e.Email,
		Phone:             e.Phone,
		Address:           e.Address,
		DateOfBirth:       calendar.FormatDatePtr(e.DateOfBirth),
		JobTitle:          e.JobTitle,
		Department:        e.Department,
		DateOfJoining:     calendar.FormatDatePtr(e.DateOfJoining),
		ProfilePictureURL: e.ProfilePictureURL,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

type ProfileResponse struct {
	EmployeeResponse
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
}

type EmployeeListItem struct {
	EmployeeResponse
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
	LatestPayroll    *payroll.PayrollResponse        `json:"latest_payroll"`
}

type EmployeeDetailResponse struct {
	EmployeeResponse
	Attendance    []attendance.AttendanceResponse `json:"attendance"`
	LeaveRequests []leave.LeaveRequestResponse    `json:"leave_requests"`
	Payroll       []payroll.PayrollResponse       `json:"payroll"`
}

type Credentials struct {
	TemporaryPassword string `json:"temporary_password"`
	Note              string `json:"note"`
}

type CreateEmployeeResponse struct {
	Employee    EmployeeResponse `json:"employee"`
	Credentials Credentials      `json:"credentials"`
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
