package attendance

import (
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
)

type ListAttendanceRequest struct {
	EmployeeID *string
	Month      *int
	Year       *int
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter applies the month only when both month and year are given.
func (r ListAttendanceRequest) Filter() Filter {
	f := Filter{EmployeeID: r.EmployeeID}
	if r.Month != nil && r.Year != nil {
		from, to := calendar.MonthRange(*r.Month, *r.Year)
		f.From, f.To = &from, &to
	}
	return f
}

type MarkAttendanceRequest struct {
	Status       *string `json:"status,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`

	checkIn  *time.Time
	checkOut *time.Time
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, HALF_DAY, LEAVE",
		})
	}
	errs = parseTimestamps(errs, r.CheckInTime, r.CheckOutTime, &r.checkIn, &r.checkOut)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusOrDefault falls back to PRESENT.
func (r MarkAttendanceRequest) StatusOrDefault() Status {
	if r.Status == nil {
		return StatusPresent
	}
	return Status(*r.Status)
}

func (r MarkAttendanceRequest) CheckIn() *time.Time  { return r.checkIn }
func (r MarkAttendanceRequest) CheckOut() *time.Time { return r.checkOut }

type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	Status       *string `json:"status,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`

	checkIn  *time.Time
	checkOut *time.Time
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, HALF_DAY, LEAVE",
		})
	}
	errs = parseTimestamps(errs, r.CheckInTime, r.CheckOutTime, &r.checkIn, &r.checkOut)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r UpdateAttendanceRequest) Changes() Changes {
	c := Changes{
		CheckInTime:  r.checkIn,
		CheckOutTime: r.checkOut,
		Remarks:      r.Remarks,
	}
	if r.Status != nil {
		s := Status(*r.Status)
		c.Status = &s
	}
	return c
}

func parseTimestamps(errs validator.ValidationErrors, in, out *string, parsedIn, parsedOut **time.Time) validator.ValidationErrors {
	if in != nil {
		if t, ok := validator.IsValidDateTime(*in); ok {
			*parsedIn = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be an ISO8601 timestamp",
			})
		}
	}
	if out != nil {
		if t, ok := validator.IsValidDateTime(*out); ok {
			*parsedOut = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO8601 timestamp",
			})
		}
	}
	if *parsedIn != nil && *parsedOut != nil && (*parsedOut).Before(**parsedIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: ErrCheckOutBeforeIn.Error(),
		})
	}
	return errs
}

type AttendanceResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeCode string     `json:"employee_code,omitempty"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Date         string     `json:"date"`
	Status       Status     `json:"status"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Remarks      *string    `json:"remarks"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         calendar.FormatDate(a.Date),
		Status:       a.Status,
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Remarks:      a.Remarks,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func NewAttendanceWithEmployeeResponse(a AttendanceWithEmployee) AttendanceResponse {
	resp := NewAttendanceResponse(a.Attendance)
	resp.EmployeeCode = a.EmployeeCode
	resp.EmployeeName = a.EmployeeName
	resp.Department = a.Department
	return resp
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}

type SummaryResponse struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
	Leave   int `json:"leave"`
	Total   int `json:"total"`
}

func NewSummaryResponse(s Summary, month, year int) SummaryResponse {
	return SummaryResponse{
		Month:   month,
		Year:    year,
		Present: s.Present,
		Absent:  s.Absent,
		HalfDay: s.HalfDay,
		Leave:   s.Leave,
		Total:   s.Total,
	}
}
