package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	MyStats(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// ListMine implements LeaveHandler.
func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	q := newQueryParams(r)
	requests, err := h.leaveService.ListMine(r.Context(), emp.ID, leave.ListLeaveRequest{
		Status: q.String("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req, "ApplyLeave") {
		return
	}

	created, err := h.leaveService.Apply(r.Context(), emp.ID, req)
	if err != nil {
		slog.Error("ApplyLeave service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted successfully", created)
}

// MyStats implements LeaveHandler.
func (h *leaveHandlerImpl) MyStats(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	stats, err := h.leaveService.MyStats(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	requests, err := h.leaveService.List(r.Context(), leave.ListLeaveRequest{
		EmployeeID: q.String("employee_id"),
		Status:     q.String("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// Decide implements LeaveHandler.
func (h *leaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	approver, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if !decodeJSON(w, r, &req, "DecideLeave") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	decided, err := h.leaveService.Decide(r.Context(), leave.Approver{
		EmployeeID: approver.ID,
		Name:       approver.FullName(),
	}, req)
	if err != nil {
		slog.Error("DecideLeave service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request "+strings.ToLower(string(decided.Status))+" successfully", decided)
}
