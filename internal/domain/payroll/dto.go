package payroll

import (
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ListPayrollRequest struct {
	EmployeeID *string
	Month      *int
	Year       *int
}

func (r *ListPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r ListPayrollRequest) Filter() Filter {
	return Filter{EmployeeID: r.EmployeeID, Month: r.Month, Year: r.Year}
}

type CreatePayrollRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Month         int              `json:"month"`
	Year          int              `json:"year"`
	BaseSalary    decimal.Decimal  `json:"base_salary"`
	Allowances    *decimal.Decimal `json:"allowances,omitempty"`
	Deductions    *decimal.Decimal `json:"deductions,omitempty"`
	GrossSalary   *decimal.Decimal `json:"gross_salary,omitempty"`
	NetSalary     *decimal.Decimal `json:"net_salary,omitempty"`
	PaymentStatus *string          `json:"payment_status,omitempty"`
	PaymentDate   *string          `json:"payment_date,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`

	paymentDate *time.Time
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}
	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than 0"})
	}
	errs = validateMoney(errs, "base_salary", &r.BaseSalary)
	errs = validateAmounts(errs, r.Allowances, r.Deductions, r.GrossSalary, r.NetSalary)
	errs = validatePayment(errs, r.PaymentStatus, r.PaymentDate, &r.paymentDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToPayroll fills the derived amounts and defaults of a new record.
func (r CreatePayrollRequest) ToPayroll(now time.Time) Payroll {
	p := Payroll{
		EmployeeID:    r.EmployeeID,
		Month:         r.Month,
		Year:          r.Year,
		BaseSalary:    r.BaseSalary,
		Allowances:    valueOrZero(r.Allowances),
		Deductions:    valueOrZero(r.Deductions),
		PaymentStatus: PaymentStatusPending,
		PaymentDate:   r.paymentDate,
		Remarks:       r.Remarks,
	}
	if r.PaymentStatus != nil {
		p.PaymentStatus = PaymentStatus(*r.PaymentStatus)
	}

	p.GrossSalary = GrossOf(p.BaseSalary, p.Allowances)
	if r.GrossSalary != nil {
		p.GrossSalary = *r.GrossSalary
	}
	p.NetSalary = NetOf(p.GrossSalary, p.Deductions)
	if r.NetSalary != nil {
		p.NetSalary = *r.NetSalary
	}

	if p.PaymentStatus == PaymentStatusPaid && p.PaymentDate == nil {
		p.PaymentDate = &now
	}
	return p
}

type UpdatePayrollRequest struct {
	ID            string           `json:"-"`
	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
	Allowances    *decimal.Decimal `json:"allowances,omitempty"`
	Deductions    *decimal.Decimal `json:"deductions,omitempty"`
	GrossSalary   *decimal.Decimal `json:"gross_salary,omitempty"`
	NetSalary     *decimal.Decimal `json:"net_salary,omitempty"`
	PaymentStatus *string          `json:"payment_status,omitempty"`
	PaymentDate   *string          `json:"payment_date,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`

	paymentDate *time.Time
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.BaseSalary != nil && !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than 0"})
	}
	errs = validateMoney(errs, "base_salary", r.BaseSalary)
	errs = validateAmounts(errs, r.Allowances, r.Deductions, r.GrossSalary, r.NetSalary)
	errs = validatePayment(errs, r.PaymentStatus, r.PaymentDate, &r.paymentDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the request into an existing record. Gross and net follow
// their components unless they are given explicitly.
func (r UpdatePayrollRequest) Apply(p Payroll, now time.Time) Payroll {
	componentsChanged := false
	if r.BaseSalary != nil {
		p.BaseSalary = *r.BaseSalary
		componentsChanged = true
	}
	if r.Allowances != nil {
		p.Allowances = *r.Allowances
		componentsChanged = true
	}
	deductionsChanged := false
	if r.Deductions != nil {
		p.Deductions = *r.Deductions
		deductionsChanged = true
	}

	grossChanged := false
	switch {
	case r.GrossSalary != nil:
		p.GrossSalary = *r.GrossSalary
		grossChanged = true
	case componentsChanged:
		p.GrossSalary = GrossOf(p.BaseSalary, p.Allowances)
		grossChanged = true
	}

	switch {
	case r.NetSalary != nil:
		p.NetSalary = *r.NetSalary
	case grossChanged || deductionsChanged:
		p.NetSalary = NetOf(p.GrossSalary, p.Deductions)
	}

	if r.Remarks != nil {
		p.Remarks = r.Remarks
	}
	if r.paymentDate != nil {
		p.PaymentDate = r.paymentDate
	}
	if r.PaymentStatus != nil {
		p.PaymentStatus = PaymentStatus(*r.PaymentStatus)
		switch {
		case p.PaymentStatus == PaymentStatusPaid && p.PaymentDate == nil:
			p.PaymentDate = &now
		case p.PaymentStatus == PaymentStatusPending && r.paymentDate == nil:
			p.PaymentDate = nil
		}
	}
	return p
}

func validateAmounts(errs validator.ValidationErrors, allowances, deductions, gross, net *decimal.Decimal) validator.ValidationErrors {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"allowances", allowances},
		{"deductions", deductions},
		{"gross_salary", gross},
		{"net_salary", net},
	}
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: f.name + " must not be negative"})
			continue
		}
		errs = validateMoney(errs, f.name, f.value)
	}
	return errs
}

// moneyLimit is the first value that no longer fits NUMERIC(14,2).
var moneyLimit = decimal.New(1, 12)

// validateMoney rejects amounts the payroll columns would round or overflow.
func validateMoney(errs validator.ValidationErrors, name string, value *decimal.Decimal) validator.ValidationErrors {
	switch {
	case value == nil:
	case !value.Equal(value.Round(2)):
		errs = append(errs, validator.ValidationError{Field: name, Message: name + " must have at most 2 decimal places"})
	case value.Abs().GreaterThanOrEqual(moneyLimit):
		errs = append(errs, validator.ValidationError{Field: name, Message: name + " must be less than 1000000000000"})
	}
	return errs
}

func validatePayment(errs validator.ValidationErrors, status, date *string, parsed **time.Time) validator.ValidationErrors {
	if status != nil && !PaymentStatus(*status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "payment_status", Message: "payment_status must be one of: PENDING, PAID"})
	}
	if date != nil && *date != "" {
		if t, ok := validator.IsValidDateTime(*date); ok {
			*parsed = &t
		} else if t, ok := validator.IsValidDate(*date); ok {
			*parsed = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "payment_date must be a date or an ISO8601 timestamp"})
		}
	}
	return errs
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

type PayrollResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Department    *string         `json:"department,omitempty"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossSalary   decimal.Decimal `json:"gross_salary"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Remarks       *string         `json:"remarks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		Month:         p.Month,
		Year:          p.Year,
		BaseSalary:    p.BaseSalary,
		Allowances:    p.Allowances,
		Deductions:    p.Deductions,
		GrossSalary:   p.GrossSalary,
		NetSalary:     p.NetSalary,
		PaymentStatus: p.PaymentStatus,
		PaymentDate:   p.PaymentDate,
		Remarks:       p.Remarks,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewPayrollWithEmployeeResponse(p PayrollWithEmployee) PayrollResponse {
	resp := NewPayrollResponse(p.Payroll)
	resp.EmployeeCode = p.EmployeeCode
	resp.EmployeeName = p.EmployeeName
	resp.Department = p.Department
	return resp
}

func NewPayrollResponses(records []PayrollWithEmployee) []PayrollResponse {
	out := make([]PayrollResponse, 0, len(records))
	for _, p := range records {
		out = append(out, NewPayrollWithEmployeeResponse(p))
	}
	return out
}
