package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsDecision reports whether s is a status an approver can set.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypePaid   Type = "PAID"
	TypeSick   Type = "SICK"
	TypeUnpaid Type = "UNPAID"
)

func (t Type) IsValid() bool {
	return t == TypePaid || t == TypeSick || t == TypeUnpaid
}

type LeaveRequest struct {
	ID               string
	EmployeeID       string
	LeaveType        Type
	StartDate        time.Time
	EndDate          time.Time
	NumberOfDays     decimal.Decimal
	Reason           string
	Remarks          *string
	Status           Status
	ApprovedByID     *string
	ApprovalComments *string
	ApprovalDate     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type LeaveRequestWithNames struct {
	LeaveRequest
	EmployeeCode  string
	EmployeeName  string
	EmployeeEmail string
	Department    *string
	ApproverName  *string
}

type Filter struct {
	EmployeeID *string
	Status     *Status
	Limit      int
}

// Decision is written once, when a pending request is approved or rejected.
type Decision struct {
	Status       Status
	ApprovedByID string
	Comments     *string
	DecidedAt    time.Time
}

type Stats struct {
	Pending      int
	Approved     int
	Rejected     int
	Total        int
	ApprovedDays decimal.Decimal
}
