package payroll

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "0195a3c4-0000-7000-8000-000000000002"
	bobID   = "0195a3c4-0000-7000-8000-000000000003"
)

type memoryPayrollRepository struct {
	mu      sync.Mutex
	records map[string]payroll.Payroll
}

func newMemoryPayrollRepository() *memoryPayrollRepository {
	return &memoryPayrollRepository{records: make(map[string]payroll.Payroll)}
}

func (m *memoryPayrollRepository) withEmployee(p payroll.Payroll) payroll.PayrollWithEmployee {
	dept := "Engineering"
	return payroll.PayrollWithEmployee{
		Payroll:      p,
		EmployeeCode: "EMP-2026-0002",
		EmployeeName: "Alice Johnson",
		Email:        "alice@dayflow.com",
		Department:   &dept,
	}
}

func (m *memoryPayrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.EmployeeID != aliceID && record.EmployeeID != bobID {
		return payroll.Payroll{}, payroll.ErrEmployeeNotFound
	}
	for _, p := range m.records {
		if p.EmployeeID == record.EmployeeID && p.Month == record.Month && p.Year == record.Year {
			return payroll.Payroll{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	record.ID = uuid.NewString()
	m.records[record.ID] = record
	return record, nil
}

func (m *memoryPayrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollWithEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return payroll.PayrollWithEmployee{}, payroll.ErrPayrollRecordNotFound
	}
	return m.withEmployee(p), nil
}

func (m *memoryPayrollRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.records {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
}

func (m *memoryPayrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.PayrollWithEmployee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []payroll.PayrollWithEmployee{}
	for _, p := range m.records {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		out = append(out, m.withEmployee(p))
	}
	return out, nil
}

func (m *memoryPayrollRepository) LatestForEmployees(ctx context.Context, employeeIDs []string) (map[string]payroll.Payroll, error) {
	return map[string]payroll.Payroll{}, nil
}

func (m *memoryPayrollRepository) Update(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
	}
	m.records[record.ID] = record
	return record, nil
}

func (m *memoryPayrollRepository) CountByStatus(ctx context.Context, status payroll.PaymentStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.records {
		if p.PaymentStatus == status {
			n++
		}
	}
	return n, nil
}

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService() payroll.PayrollService {
	return NewPayrollService(newMemoryPayrollRepository(), calendar.NewFixedClock(now, time.UTC))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func createRecord(t *testing.T, svc payroll.PayrollService, employeeID string, month int) payroll.PayrollResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID: employeeID,
		Month:      month,
		Year:       2026,
		BaseSalary: dec("5000"),
		Allowances: decPtr("500"),
		Deductions: decPtr("250.50"),
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_DerivesGrossAndNet(t *testing.T) {
	svc := newTestService()

	resp := createRecord(t, svc, aliceID, 3)
	assert.True(t, resp.GrossSalary.Equal(dec("5500")))
	assert.True(t, resp.NetSalary.Equal(dec("5249.50")))
	assert.Equal(t, payroll.PaymentStatusPending, resp.PaymentStatus)
	assert.Nil(t, resp.PaymentDate)
}

func TestCreate_PaidStampsPaymentDate(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID:    aliceID,
		Month:         2,
		Year:          2026,
		BaseSalary:    dec("4000"),
		PaymentStatus: strPtr("PAID"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PaymentDate)
	assert.True(t, resp.PaymentDate.Equal(now))
	assert.True(t, resp.NetSalary.Equal(dec("4000")))
}

func TestCreate_Errors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	createRecord(t, svc, aliceID, 3)

	_, err := svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: aliceID, Month: 3, Year: 2026, BaseSalary: dec("1")})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	_, err = svc.Create(ctx, payroll.CreatePayrollRequest{EmployeeID: uuid.NewString(), Month: 3, Year: 2026, BaseSalary: dec("1")})
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	_, err = svc.Create(ctx, payroll.CreatePayrollRequest{
		EmployeeID: aliceID,
		Month:      13,
		Year:       2026,
		BaseSalary: dec("0"),
		Deductions: decPtr("-1"),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "month")
	assert.Contains(t, fields, "base_salary")
	assert.Contains(t, fields, "deductions")
}

func TestUpdate_RecomputesFromComponents(t *testing.T) {
	svc := newTestService()
	created := createRecord(t, svc, aliceID, 3)

	resp, err := svc.Update(context.Background(), payroll.UpdatePayrollRequest{
		ID:         created.ID,
		Allowances: decPtr("1000"),
	})
	require.NoError(t, err)
	assert.True(t, resp.GrossSalary.Equal(dec("6000")))
	assert.True(t, resp.NetSalary.Equal(dec("5749.50")))
	assert.Equal(t, "Alice Johnson", resp.EmployeeName)

	resp, err = svc.Update(context.Background(), payroll.UpdatePayrollRequest{
		ID:            created.ID,
		NetSalary:     decPtr("5700"),
		PaymentStatus: strPtr("PAID"),
	})
	require.NoError(t, err)
	assert.True(t, resp.GrossSalary.Equal(dec("6000")))
	assert.True(t, resp.NetSalary.Equal(dec("5700")))
	assert.Equal(t, payroll.PaymentStatusPaid, resp.PaymentStatus)
	require.NotNil(t, resp.PaymentDate)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Update(context.Background(), payroll.UpdatePayrollRequest{ID: uuid.NewString(), Remarks: strPtr("x")})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestMyCurrent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.MyCurrent(ctx, aliceID)
	assert.ErrorIs(t, err, payroll.ErrNoPayrollForCurrentMonth)

	createRecord(t, svc, aliceID, 3)
	resp, err := svc.MyCurrent(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Month)
}

func TestListMineIgnoresEmployeeFilter(t *testing.T) {
	svc := newTestService()
	createRecord(t, svc, aliceID, 1)
	createRecord(t, svc, aliceID, 2)
	createRecord(t, svc, bobID, 2)

	other := bobID
	records, err := svc.ListMine(context.Background(), aliceID, payroll.ListPayrollRequest{EmployeeID: &other})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	month := 2
	records, err = svc.List(context.Background(), payroll.ListPayrollRequest{Month: &month})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPayslip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created := createRecord(t, svc, aliceID, 3)

	file, err := svc.Payslip(ctx, payroll.Requester{EmployeeID: aliceID}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "payslip-EMP-2026-0002-2026-03.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))

	_, err = svc.Payslip(ctx, payroll.Requester{EmployeeID: bobID}, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayslipForbidden)

	_, err = svc.Payslip(ctx, payroll.Requester{EmployeeID: bobID, IsAdmin: true}, created.ID)
	assert.NoError(t, err)

	_, err = svc.Payslip(ctx, payroll.Requester{IsAdmin: true}, uuid.NewString())
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}
