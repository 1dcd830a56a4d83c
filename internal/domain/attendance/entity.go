package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

// Attendance is one employee's record for one calendar day.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Status       Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Remarks      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AttendanceWithEmployee struct {
	Attendance
	EmployeeCode string
	EmployeeName string
	Department   *string
}

// Filter narrows a listing. From is inclusive, To exclusive.
type Filter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
}

type Summary struct {
	Present int
	Absent  int
	HalfDay int
	Leave   int
	Total   int
}

// Changes lists the columns to overwrite on update.
type Changes struct {
	Status       *Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	// Remarks set to an empty string clears the column.
	Remarks *string
}
