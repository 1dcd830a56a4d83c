package dashboard

import (
	"context"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
)

type DashboardService interface {
	// GetEmployeeDashboard composes the home screen of the given employee.
	GetEmployeeDashboard(ctx context.Context, emp employee.Employee) (EmployeeDashboardResponse, error)

	// GetAdminDashboard composes organisation-wide figures for admins.
	GetAdminDashboard(ctx context.Context) (AdminDashboardResponse, error)
}
