package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	e.id, e.employee_code, e.identity_uid, e.role, e.first_name, e.last_name, e.email,
	e.phone, e.address, e.date_of_birth, e.job_title, e.department, e.date_of_joining,
	e.profile_picture_url, e.created_at, e.updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.IdentityUID, &e.Role, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Address, &e.DateOfBirth, &e.JobTitle, &e.Department, &e.DateOfJoining,
		&e.ProfilePictureURL, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if emp.ID == "" {
		emp.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO employees (
			id, employee_code, identity_uid, role, first_name, last_name, email,
			phone, address, date_of_birth, job_title, department, date_of_joining,
			profile_picture_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.EmployeeCode, emp.IdentityUID, emp.Role, emp.FirstName, emp.LastName, emp.Email,
		emp.Phone, emp.Address, emp.DateOfBirth, emp.JobTitle, emp.Department, emp.DateOfJoining,
		emp.ProfilePictureURL,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return emp, nil
}

// GetByIdentityUID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIdentityUID(ctx context.Context, uid string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.identity_uid = $1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeRecordNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by identity: %w", err)
	}
	return emp, nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE lower(email) = lower($1) AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e ORDER BY e.created_at DESC`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, changes employee.Changes) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if changes.FirstName != nil {
		updates["first_name"] = *changes.FirstName
	}
	if changes.LastName != nil {
		updates["last_name"] = *changes.LastName
	}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.Phone != nil {
		updates["phone"] = *changes.Phone
	}
	if changes.Address != nil {
		updates["address"] = *changes.Address
	}
	if changes.JobTitle != nil {
		updates["job_title"] = *changes.JobTitle
	}
	if changes.Department != nil {
		updates["department"] = *changes.Department
	}
	if changes.Role != nil {
		updates["role"] = string(*changes.Role)
	}
	if changes.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *changes.ProfilePictureURL
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE employees e SET %s WHERE e.id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), i, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return emp, nil
}

// NextCodeSequence implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) NextCodeSequence(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	// The row lock taken by UPDATE serialises concurrent callers.
	query := `
		UPDATE employee_code_counter
		SET last_value = last_value + 1
		WHERE id = 1
		RETURNING last_value
	`
	var next int
	if err := q.QueryRow(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to advance employee code counter: %w", err)
	}
	return next, nil
}

func mapEmployeeWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err, "employees_email_key"):
		return employee.ErrEmailExists
	case database.IsUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	case database.IsUniqueViolation(err, "employees_identity_uid_key"):
		return employee.ErrIdentityAlreadyLinked
	}
	return fmt.Errorf("failed to write employee: %w", err)
}
