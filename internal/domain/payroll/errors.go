package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrNoPayrollForCurrentMonth   = errors.New("no payroll record found for the current month")
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrPayslipForbidden           = errors.New("payslips can only be downloaded by their owner or an admin")
)
