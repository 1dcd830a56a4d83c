package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// Payroll - one salary record per employee and period
type Payroll struct {
	ID            string
	EmployeeID    string
	Month         int
	Year          int
	BaseSalary    decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	GrossSalary   decimal.Decimal
	NetSalary     decimal.Decimal
	PaymentStatus PaymentStatus
	PaymentDate   *time.Time
	Remarks       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PayrollWithEmployee struct {
	Payroll

	// Joined fields
	EmployeeCode string
	EmployeeName string
	Email        string
	JobTitle     *string
	Department   *string
}

type Filter struct {
	EmployeeID *string
	Month      *int
	Year       *int
}

// GrossOf is base salary plus allowances.
func GrossOf(base, allowances decimal.Decimal) decimal.Decimal {
	return base.Add(allowances)
}

// NetOf is gross salary minus deductions.
func NetOf(gross, deductions decimal.Decimal) decimal.Decimal {
	return gross.Sub(deductions)
}
