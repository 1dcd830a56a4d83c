package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.status, a.check_in_time, a.check_out_time, a.remarks,
	a.created_at, a.updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row, extra ...interface{}) (attendance.Attendance, error) {
	var a attendance.Attendance
	dest := []interface{}{
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckInTime, &a.CheckOutTime, &a.Remarks,
		&a.CreatedAt, &a.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendance (
			id, employee_id, date, status, check_in_time, check_out_time, remarks, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.Date, a.Status, a.CheckInTime, a.CheckOutTime, a.Remarks,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendance_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.id = $1`
	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id %s: %w", id, err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.employee_id = $1 AND a.date = $2`
	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for day: %w", err)
	}
	return a, nil
}

func attendanceWhere(filter attendance.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date < $%d", argIdx))
		args = append(args, *filter.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.AttendanceWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	where, args := attendanceWhere(filter)
	query := `
		SELECT ` + attendanceColumns + `, e.employee_code, e.first_name || ' ' || e.last_name, e.department
		FROM attendance a
		INNER JOIN employees e ON e.id = a.employee_id` + where + `
		ORDER BY a.date DESC, e.employee_code ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.AttendanceWithEmployee{}
	for rows.Next() {
		var rec attendance.AttendanceWithEmployee
		rec.Attendance, err = scanAttendance(rows, &rec.EmployeeCode, &rec.EmployeeName, &rec.Department)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRecent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRecent(ctx context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.employee_id = $1 ORDER BY a.date DESC`
	args := []interface{}{employeeID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// ListRecentForEmployees implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRecentForEmployees(ctx context.Context, employeeIDs []string, perEmployee int) (map[string][]attendance.Attendance, error) {
	result := make(map[string][]attendance.Attendance, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + strings.ReplaceAll(attendanceColumns, "a.", "ranked.") + `
		FROM (
			SELECT a.*, ROW_NUMBER() OVER (PARTITION BY a.employee_id ORDER BY a.date DESC) AS rn
			FROM attendance a
			WHERE a.employee_id = ANY($1::uuid[])
		) ranked
		WHERE ranked.rn <= $2
		ORDER BY ranked.employee_id, ranked.date DESC
	`
	rows, err := q.Query(ctx, query, employeeIDs, perEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result[a.EmployeeID] = append(result[a.EmployeeID], a)
	}
	return result, rows.Err()
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, id string, changes attendance.Changes) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if changes.Status != nil {
		updates["status"] = string(*changes.Status)
	}
	if changes.CheckInTime != nil {
		updates["check_in_time"] = *changes.CheckInTime
	}
	if changes.CheckOutTime != nil {
		updates["check_out_time"] = *changes.CheckOutTime
	}
	if changes.Remarks != nil {
		if *changes.Remarks == "" {
			updates["remarks"] = nil
		} else {
			updates["remarks"] = *changes.Remarks
		}
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

	sql := fmt.Sprintf("UPDATE attendance a SET %s WHERE a.id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), i, attendanceColumns)

	a, err := scanAttendance(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance with id %s: %w", id, err)
	}
	return a, nil
}

// Summarize implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Summarize(ctx context.Context, filter attendance.Filter) (attendance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	where, args := attendanceWhere(filter)
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN a.status = 'PRESENT' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = 'ABSENT' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = 'HALF_DAY' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = 'LEAVE' THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM attendance a` + where

	var s attendance.Summary
	if err := q.QueryRow(ctx, query, args...).Scan(&s.Present, &s.Absent, &s.HalfDay, &s.Leave, &s.Total); err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return s, nil
}

// CreateMissing implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateMissing(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (id, employee_id, date, status, remarks, created_at, updated_at)
		SELECT
			gen_random_uuid(),
			e.id,
			$1::date,
			CASE WHEN EXISTS (
				SELECT 1 FROM leave_requests lr
				WHERE lr.employee_id = e.id
				  AND lr.status = 'APPROVED'
				  AND $1::date BETWEEN lr.start_date AND lr.end_date
			) THEN 'LEAVE' ELSE 'ABSENT' END,
			'Recorded automatically',
			NOW(), NOW()
		FROM employees e
		WHERE (e.date_of_joining IS NULL OR e.date_of_joining <= $1::date)
		  AND NOT EXISTS (
			SELECT 1 FROM attendance a WHERE a.employee_id = e.id AND a.date = $1::date
		  )
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	tag, err := q.Exec(ctx, query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to close attendance day: %w", err)
	}
	return tag.RowsAffected(), nil
}
