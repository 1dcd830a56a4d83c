package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.base_salary, p.allowances, p.deductions,
	p.gross_salary, p.net_salary, p.payment_status, p.payment_date, p.remarks,
	p.created_at, p.updated_at`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row, extra ...interface{}) (payroll.Payroll, error) {
	var p payroll.Payroll
	dest := []interface{}{
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseSalary, &p.Allowances, &p.Deductions,
		&p.GrossSalary, &p.NetSalary, &p.PaymentStatus, &p.PaymentDate, &p.Remarks,
		&p.CreatedAt, &p.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

func scanPayrollWithEmployee(row pgx.Row) (payroll.PayrollWithEmployee, error) {
	var rec payroll.PayrollWithEmployee
	var err error
	rec.Payroll, err = scanPayroll(row, &rec.EmployeeCode, &rec.EmployeeName, &rec.Email, &rec.JobTitle, &rec.Department)
	return rec, err
}

const payrollWithEmployeeSelect = `
	SELECT ` + payrollColumns + `,
		e.employee_code, e.first_name || ' ' || e.last_name, e.email, e.job_title, e.department
	FROM payroll p
	INNER JOIN employees e ON e.id = p.employee_id`

func (r *payrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO payroll (
			id, employee_id, month, year, base_salary, allowances, deductions,
			gross_salary, net_salary, payment_status, payment_date, remarks,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Month, record.Year, record.BaseSalary, record.Allowances, record.Deductions,
		record.GrossSalary, record.NetSalary, string(record.PaymentStatus), record.PaymentDate, record.Remarks,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "payroll_employee_period_key") {
			return payroll.Payroll{}, payroll.ErrPayrollRecordAlreadyExists
		}
		if database.IsForeignKeyViolation(err) {
			return payroll.Payroll{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return record, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayrollWithEmployee(q.QueryRow(ctx, payrollWithEmployeeSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollWithEmployee{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollWithEmployee{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payroll p WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3`
	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll for period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.PayrollWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argIdx))
		args = append(args, *filter.Year)
	}

	query := payrollWithEmployeeSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.year DESC, p.month DESC, e.employee_code ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollWithEmployee{}
	for rows.Next() {
		rec, err := scanPayrollWithEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *payrollRepository) LatestForEmployees(ctx context.Context, employeeIDs []string) (map[string]payroll.Payroll, error) {
	result := make(map[string]payroll.Payroll, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (p.employee_id) ` + payrollColumns + `
		FROM payroll p
		WHERE p.employee_id = ANY($1::uuid[])
		ORDER BY p.employee_id, p.year DESC, p.month DESC
	`
	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payroll records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		result[p.EmployeeID] = p
	}
	return result, rows.Err()
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll p SET
			base_salary = $2,
			allowances = $3,
			deductions = $4,
			gross_salary = $5,
			net_salary = $6,
			payment_status = $7,
			payment_date = $8,
			remarks = $9,
			updated_at = NOW()
		WHERE p.id = $1
		RETURNING ` + payrollColumns

	updated, err := scanPayroll(q.QueryRow(ctx, query,
		record.ID, record.BaseSalary, record.Allowances, record.Deductions,
		record.GrossSalary, record.NetSalary, string(record.PaymentStatus), record.PaymentDate, record.Remarks,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	return updated, nil
}

func (r *payrollRepository) CountByStatus(ctx context.Context, status payroll.PaymentStatus) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll WHERE payment_status = $1`, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payroll records: %w", err)
	}
	return count, nil
}
