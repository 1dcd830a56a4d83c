package http

import (
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetEmployeeDashboard handles GET /dashboard/employee for the caller
	GetEmployeeDashboard(w http.ResponseWriter, r *http.Request)
	// GetAdminDashboard handles GET /dashboard/admin
	GetAdminDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) GetEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetEmployeeDashboard(r.Context(), emp)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *dashboardHandlerImpl) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAdminDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
