package http

import (
	"log/slog"
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	MyCurrent(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListMine implements PayrollHandler.
func (h *payrollHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	q := newQueryParams(r)
	req := payroll.ListPayrollRequest{
		Month: q.Int("month"),
		Year:  q.Int("year"),
	}
	if !q.Valid(w) {
		return
	}

	records, err := h.payrollService.ListMine(r.Context(), emp.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// MyCurrent implements PayrollHandler.
func (h *payrollHandlerImpl) MyCurrent(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	record, err := h.payrollService.MyCurrent(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, record)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := payroll.ListPayrollRequest{
		EmployeeID: q.String("employee_id"),
		Month:      q.Int("month"),
		Year:       q.Int("year"),
	}
	if !q.Valid(w) {
		return
	}

	records, err := h.payrollService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Create implements PayrollHandler.
func (h *payrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if !decodeJSON(w, r, &req, "CreatePayroll") {
		return
	}

	created, err := h.payrollService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreatePayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll record created successfully", created)
}

// Update implements PayrollHandler.
func (h *payrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollRequest
	if !decodeJSON(w, r, &req, "UpdatePayroll") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.payrollService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdatePayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll record updated successfully", updated)
}

// Payslip implements PayrollHandler.
func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	file, err := h.payrollService.Payslip(r.Context(), payroll.Requester{
		EmployeeID: emp.ID,
		IsAdmin:    emp.IsAdmin(),
	}, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Filename, "application/pdf", file.Content)
}
