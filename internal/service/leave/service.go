package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/email"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	emailService email.EmailService
	clock        *calendar.Clock
}

func NewLeaveService(leaveRequestRepository leave.LeaveRequestRepository, emailService email.EmailService, clock *calendar.Clock) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		emailService:           emailService,
		clock:                  clock,
	}
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, employeeID string, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	req.EmployeeID = nil
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.Filter()
	filter.EmployeeID = &employeeID

	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.NewLeaveRequestResponses(requests), nil
}

// Apply implements leave.LeaveService.
func (s *LeaveServiceImpl) Apply(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:   employeeID,
		LeaveType:    leave.Type(req.LeaveType),
		StartDate:    req.Start(),
		EndDate:      req.End(),
		NumberOfDays: req.Days(),
		Reason:       req.Reason,
		Remarks:      req.Remarks,
		Status:       leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(leave.LeaveRequestWithNames{LeaveRequest: created}), nil
}

// MyStats implements leave.LeaveService.
func (s *LeaveServiceImpl) MyStats(ctx context.Context, employeeID string) (leave.StatsResponse, error) {
	stats, err := s.LeaveRequestRepository.Stats(ctx, employeeID)
	if err != nil {
		return leave.StatsResponse{}, err
	}
	return leave.NewStatsResponse(stats), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.NewLeaveRequestResponses(requests), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, approver leave.Approver, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decision := leave.Decision{
		Status:       leave.Status(req.Status),
		ApprovedByID: approver.EmployeeID,
		Comments:     req.ApprovalComments,
		DecidedAt:    s.clock.Now(),
	}
	if err := s.LeaveRequestRepository.Decide(ctx, req.ID, decision); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decided, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to reload leave request: %w", err)
	}

	s.notifyDecision(ctx, decided, approver)
	return leave.NewLeaveRequestResponse(decided), nil
}

func (s *LeaveServiceImpl) notifyDecision(ctx context.Context, lr leave.LeaveRequestWithNames, approver leave.Approver) {
	if s.emailService == nil || lr.EmployeeEmail == "" {
		return
	}

	data := email.LeaveDecisionData{
		To:           lr.EmployeeEmail,
		EmployeeName: lr.EmployeeName,
		LeaveType:    string(lr.LeaveType),
		StartDate:    calendar.FormatDate(lr.StartDate),
		EndDate:      calendar.FormatDate(lr.EndDate),
		NumberOfDays: lr.NumberOfDays.String(),
		Status:       string(lr.Status),
		ApproverName: approver.Name,
	}
	if lr.ApprovalComments != nil {
		data.Comments = *lr.ApprovalComments
	}

	if err := s.emailService.SendLeaveDecision(ctx, data); err != nil {
		slog.Error("failed to send leave decision email", "leave_request_id", lr.ID, "error", err)
	}
}
