package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetAdminCounters returns head counts, today's attendance and open work in single query
func (r *dashboardRepositoryImpl) GetAdminCounters(ctx context.Context, today time.Time) (dashboard.AdminCounters, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH headcount AS (
			SELECT
				COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN role = 'ADMIN' THEN 1 ELSE 0 END), 0) AS admins,
				COALESCE(SUM(CASE WHEN role = 'EMPLOYEE' THEN 1 ELSE 0 END), 0) AS employees
			FROM employees
		), today AS (
			SELECT
				COALESCE(SUM(CASE WHEN status = 'PRESENT' THEN 1 ELSE 0 END), 0) AS present,
				COALESCE(SUM(CASE WHEN status = 'ABSENT' THEN 1 ELSE 0 END), 0) AS absent,
				COALESCE(SUM(CASE WHEN status = 'HALF_DAY' THEN 1 ELSE 0 END), 0) AS half_day,
				COALESCE(SUM(CASE WHEN status = 'LEAVE' THEN 1 ELSE 0 END), 0) AS on_leave
			FROM attendance
			WHERE date = $1
		)
		SELECT
			h.total, h.admins, h.employees,
			t.present, t.absent, t.half_day, t.on_leave,
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'PENDING') AS pending_leaves,
			(SELECT COUNT(*) FROM payroll WHERE payment_status = 'PENDING') AS unpaid_payroll
		FROM headcount h CROSS JOIN today t
	`

	var c dashboard.AdminCounters
	err := q.QueryRow(ctx, query, today).Scan(
		&c.TotalEmployees, &c.Admins, &c.Employees,
		&c.PresentToday, &c.AbsentToday, &c.HalfDayToday, &c.LeaveToday,
		&c.PendingLeaves, &c.UnpaidPayroll,
	)
	if err != nil {
		return dashboard.AdminCounters{}, fmt.Errorf("failed to get admin counters: %w", err)
	}
	return c, nil
}
