package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveRequestSelect = `
	SELECT
		lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.number_of_days,
		lr.reason, lr.remarks, lr.status, lr.approved_by_id, lr.approval_comments, lr.approval_date,
		lr.created_at, lr.updated_at,
		e.employee_code, e.first_name || ' ' || e.last_name, e.email, e.department,
		CASE WHEN ap.id IS NULL THEN NULL ELSE ap.first_name || ' ' || ap.last_name END
	FROM leave_requests lr
	INNER JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN employees ap ON ap.id = lr.approved_by_id`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequestWithNames, error) {
	var lr leave.LeaveRequestWithNames
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.NumberOfDays,
		&lr.Reason, &lr.Remarks, &lr.Status, &lr.ApprovedByID, &lr.ApprovalComments, &lr.ApprovalDate,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeCode, &lr.EmployeeName, &lr.EmployeeEmail, &lr.Department, &lr.ApproverName,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, number_of_days,
			reason, remarks, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType, request.StartDate, request.EndDate, request.NumberOfDays,
		request.Reason, request.Remarks, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequestWithNames, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestWithNames{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestWithNames{}, fmt.Errorf("failed to get leave request by id %s: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequestWithNames, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query := leaveRequestSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY lr.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	return r.query(ctx, q, query, args...)
}

// ListRecentlyDecided implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListRecentlyDecided(ctx context.Context, limit int) ([]leave.LeaveRequestWithNames, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveRequestSelect + `
		WHERE lr.status IN ('APPROVED', 'REJECTED')
		ORDER BY lr.updated_at DESC
		LIMIT $1`
	return r.query(ctx, q, query, limit)
}

func (r *leaveRequestRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRequestWithNames, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequestWithNames{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, decision leave.Decision) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by_id = $3, approval_comments = $4, approval_date = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`
	tag, err := q.Exec(ctx, query, id, string(decision.Status), decision.ApprovedByID, decision.Comments, decision.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to decide leave request %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check leave request %s: %w", id, err)
	}
	if !exists {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

// Stats implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Stats(ctx context.Context, employeeID string) (leave.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'APPROVED' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'REJECTED' THEN 1 ELSE 0 END), 0),
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'APPROVED' THEN number_of_days ELSE 0 END), 0)
		FROM leave_requests
		WHERE employee_id = $1
	`
	var s leave.Stats
	err := q.QueryRow(ctx, query, employeeID).Scan(&s.Pending, &s.Approved, &s.Rejected, &s.Total, &s.ApprovedDays)
	if err != nil {
		return leave.Stats{}, fmt.Errorf("failed to get leave stats: %w", err)
	}
	return s, nil
}
