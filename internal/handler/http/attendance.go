package http

import (
	"log/slog"
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	q := newQueryParams(r)
	req := attendance.ListAttendanceRequest{
		Month: q.Int("month"),
		Year:  q.Int("year"),
	}
	if !q.Valid(w) {
		return
	}

	records, err := h.attendanceService.ListMine(r.Context(), emp.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeOptionalJSON(w, r, &req, "MarkAttendance") {
		return
	}

	record, err := h.attendanceService.Mark(r.Context(), emp.ID, req)
	if err != nil {
		slog.Error("MarkAttendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance marked successfully", record)
}

// MySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	emp, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	summary, err := h.attendanceService.MySummary(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := attendance.ListAttendanceRequest{
		EmployeeID: q.String("employee_id"),
		Month:      q.Int("month"),
		Year:       q.Int("year"),
	}
	if !q.Valid(w) {
		return
	}

	records, err := h.attendanceService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req, "UpdateAttendance") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdateAttendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated successfully", record)
}
