package leave

import (
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var halfDay = decimal.RequireFromString("0.5")

// maxLeaveSpan bounds a single request, inclusive of both ends.
const maxLeaveSpan = 366

type ListLeaveRequest struct {
	EmployeeID *string
	Status     *string
}

func (r *ListLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r ListLeaveRequest) Filter() Filter {
	f := Filter{EmployeeID: r.EmployeeID}
	if r.Status != nil {
		s := Status(*r.Status)
		f.Status = &s
	}
	return f
}

type CreateLeaveRequest struct {
	LeaveType    string           `json:"leave_type"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	NumberOfDays *decimal.Decimal `json:"number_of_days,omitempty"`
	Reason       string           `json:"reason"`
	Remarks      *string          `json:"remarks,omitempty"`

	start time.Time
	end   time.Time
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if !Type(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: PAID, SICK, UNPAID",
		})
	}

	var startOK, endOK bool
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if r.start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if r.end, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK {
		span := calendar.InclusiveDays(r.start, r.end)
		if span == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if span > maxLeaveSpan {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "leave request must not span more than 366 days",
			})
		} else if r.NumberOfDays != nil {
			days := *r.NumberOfDays
			switch {
			case !days.IsPositive():
				errs = append(errs, validator.ValidationError{
					Field:   "number_of_days",
					Message: "number_of_days must be positive",
				})
			case !days.Mod(halfDay).IsZero():
				errs = append(errs, validator.ValidationError{
					Field:   "number_of_days",
					Message: "number_of_days must be a multiple of 0.5",
				})
			case days.GreaterThan(decimal.NewFromInt(int64(span))):
				errs = append(errs, validator.ValidationError{
					Field:   "number_of_days",
					Message: "number_of_days must not exceed the requested date range",
				})
			}
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Days defaults to the inclusive calendar-day span of the request.
func (r CreateLeaveRequest) Days() decimal.Decimal {
	if r.NumberOfDays != nil {
		return *r.NumberOfDays
	}
	return decimal.NewFromInt(int64(calendar.InclusiveDays(r.start, r.end)))
}

func (r CreateLeaveRequest) Start() time.Time { return r.start }
func (r CreateLeaveRequest) End() time.Time   { return r.end }

type DecideLeaveRequest struct {
	ID               string  `json:"-"`
	Status           string  `json:"status"`
	ApprovalComments *string `json:"approval_comments,omitempty"`
}

// Validate returns ErrInvalidDecisionStatus for anything but APPROVED or REJECTED.
func (r *DecideLeaveRequest) Validate() error {
	if !validator.IsValidUUID(r.ID) {
		return validator.ValidationErrors{{
			Field:   "id",
			Message: "id must be a valid UUID",
		}}
	}
	if !Status(r.Status).IsDecision() {
		return ErrInvalidDecisionStatus
	}
	return nil
}

type LeaveRequestResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeCode     string          `json:"employee_code,omitempty"`
	EmployeeName     string          `json:"employee_name,omitempty"`
	Department       *string         `json:"department,omitempty"`
	LeaveType        Type            `json:"leave_type"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	NumberOfDays     decimal.Decimal `json:"number_of_days"`
	Reason           string          `json:"reason"`
	Remarks          *string         `json:"remarks"`
	Status           Status          `json:"status"`
	ApprovedByID     *string         `json:"approved_by_id"`
	ApproverName     *string         `json:"approver_name"`
	ApprovalComments *string         `json:"approval_comments"`
	ApprovalDate     *time.Time      `json:"approval_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func NewLeaveRequestResponse(lr LeaveRequestWithNames) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:               lr.ID,
		EmployeeID:       lr.EmployeeID,
		EmployeeCode:     lr.EmployeeCode,
		EmployeeName:     lr.EmployeeName,
		Department:       lr.Department,
		LeaveType:        lr.LeaveType,
		StartDate:        calendar.FormatDate(lr.StartDate),
		EndDate:          calendar.FormatDate(lr.EndDate),
		NumberOfDays:     lr.NumberOfDays,
		Reason:           lr.Reason,
		Remarks:          lr.Remarks,
		Status:           lr.Status,
		ApprovedByID:     lr.ApprovedByID,
		ApproverName:     lr.ApproverName,
		ApprovalComments: lr.ApprovalComments,
		ApprovalDate:     lr.ApprovalDate,
		CreatedAt:        lr.CreatedAt,
		UpdatedAt:        lr.UpdatedAt,
	}
}

func NewLeaveRequestResponses(requests []LeaveRequestWithNames) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		out = append(out, NewLeaveRequestResponse(lr))
	}
	return out
}

type StatsResponse struct {
	Pending      int             `json:"pending"`
	Approved     int             `json:"approved"`
	Rejected     int             `json:"rejected"`
	Total        int             `json:"total"`
	ApprovedDays decimal.Decimal `json:"approved_days"`
}

func NewStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		Pending:      s.Pending,
		Approved:     s.Approved,
		Rejected:     s.Rejected,
		Total:        s.Total,
		ApprovedDays: s.ApprovedDays,
	}
}
