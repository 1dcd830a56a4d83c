package payroll

import "context"

type PayrollRepository interface {
	// Create returns ErrPayrollRecordAlreadyExists when the period is taken.
	Create(ctx context.Context, record Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (PayrollWithEmployee, error)
	GetByPeriod(ctx context.Context, employeeID string, month, year int) (Payroll, error)
	// List returns records newest period first.
	List(ctx context.Context, filter Filter) ([]PayrollWithEmployee, error)
	LatestForEmployees(ctx context.Context, employeeIDs []string) (map[string]Payroll, error)
	Update(ctx context.Context, record Payroll) (Payroll, error)
	CountByStatus(ctx context.Context, status PaymentStatus) (int, error)
}
