package payroll

import "context"

// Requester is the employee asking for a payroll document.
type Requester struct {
	EmployeeID string
	IsAdmin    bool
}

type PayrollService interface {
	ListMine(ctx context.Context, employeeID string, req ListPayrollRequest) ([]PayrollResponse, error)
	MyCurrent(ctx context.Context, employeeID string) (PayrollResponse, error)
	List(ctx context.Context, req ListPayrollRequest) ([]PayrollResponse, error)
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)
	Payslip(ctx context.Context, requester Requester, id string) (PayslipFile, error)
}

type PayslipFile struct {
	Filename string
	Content  []byte
}
