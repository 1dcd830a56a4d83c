package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/payslip"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
)

const companyName = "Dayflow"

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	clock *calendar.Clock
}

func NewPayrollService(payrollRepository payroll.PayrollRepository, clock *calendar.Clock) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository: payrollRepository,
		clock:             clock,
	}
}

// ListMine implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListMine(ctx context.Context, employeeID string, req payroll.ListPayrollRequest) ([]payroll.PayrollResponse, error) {
	req.EmployeeID = nil
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.Filter()
	filter.EmployeeID = &employeeID

	records, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return payroll.NewPayrollResponses(records), nil
}

// MyCurrent implements payroll.PayrollService.
func (s *PayrollServiceImpl) MyCurrent(ctx context.Context, employeeID string) (payroll.PayrollResponse, error) {
	month, year := s.clock.CurrentPeriod()

	record, err := s.PayrollRepository.GetByPeriod(ctx, employeeID, month, year)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollResponse{}, payroll.ErrNoPayrollForCurrentMonth
		}
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(record), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, req payroll.ListPayrollRequest) ([]payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.PayrollRepository.List(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return payroll.NewPayrollResponses(records), nil
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	created, err := s.PayrollRepository.Create(ctx, req.ToPayroll(s.clock.Now()))
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(created), nil
}

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	existing, err := s.PayrollRepository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	updated, err := s.PayrollRepository.Update(ctx, req.Apply(existing.Payroll, s.clock.Now()))
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	resp := payroll.NewPayrollResponse(updated)
	resp.EmployeeCode = existing.EmployeeCode
	resp.EmployeeName = existing.EmployeeName
	resp.Department = existing.Department
	return resp, nil
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, requester payroll.Requester, id string) (payroll.PayslipFile, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayslipFile{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	record, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipFile{}, err
	}
	if !requester.IsAdmin && record.EmployeeID != requester.EmployeeID {
		return payroll.PayslipFile{}, payroll.ErrPayslipForbidden
	}

	data := payslip.Data{
		CompanyName:   companyName,
		EmployeeName:  record.EmployeeName,
		EmployeeCode:  record.EmployeeCode,
		Email:         record.Email,
		JobTitle:      deref(record.JobTitle),
		Department:    deref(record.Department),
		Month:         record.Month,
		Year:          record.Year,
		BaseSalary:    record.BaseSalary,
		Allowances:    record.Allowances,
		Deductions:    record.Deductions,
		GrossSalary:   record.GrossSalary,
		NetSalary:     record.NetSalary,
		PaymentStatus: string(record.PaymentStatus),
		PaymentDate:   record.PaymentDate,
		Remarks:       deref(record.Remarks),
		GeneratedAt:   s.clock.Now(),
	}

	content, err := payslip.Render(data)
	if err != nil {
		return payroll.PayslipFile{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	return payroll.PayslipFile{
		Filename: payslip.Filename(record.EmployeeCode, record.Month, record.Year),
		Content:  content,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
