package leave

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLeaveRepository struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequestWithNames
	seq      int
}

func newMemoryLeaveRepository() *memoryLeaveRepository {
	return &memoryLeaveRepository{requests: make(map[string]leave.LeaveRequestWithNames)}
}

func (m *memoryLeaveRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	request.ID = uuid.NewString()
	request.CreatedAt = time.Date(2026, 3, 1, 0, 0, m.seq, 0, time.UTC)
	request.UpdatedAt = request.CreatedAt
	m.requests[request.ID] = leave.LeaveRequestWithNames{
		LeaveRequest:  request,
		EmployeeCode:  "EMP-2026-0002",
		EmployeeName:  "Alice Johnson",
		EmployeeEmail: "alice@dayflow.com",
	}
	return request, nil
}

func (m *memoryLeaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequestWithNames, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lr, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequestWithNames{}, leave.ErrLeaveRequestNotFound
	}
	return lr, nil
}

func (m *memoryLeaveRepository) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequestWithNames, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []leave.LeaveRequestWithNames{}
	for _, lr := range m.requests {
		if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && lr.Status != *filter.Status {
			continue
		}
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memoryLeaveRepository) ListRecentlyDecided(ctx context.Context, limit int) ([]leave.LeaveRequestWithNames, error) {
	return nil, nil
}

func (m *memoryLeaveRepository) Decide(ctx context.Context, id string, decision leave.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lr, ok := m.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if lr.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	approver := decision.ApprovedByID
	decidedAt := decision.DecidedAt
	approverName := "John Admin"
	lr.Status = decision.Status
	lr.ApprovedByID = &approver
	lr.ApprovalComments = decision.Comments
	lr.ApprovalDate = &decidedAt
	lr.ApproverName = &approverName
	m.requests[id] = lr
	return nil
}

func (m *memoryLeaveRepository) Stats(ctx context.Context, employeeID string) (leave.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := leave.Stats{ApprovedDays: decimal.Zero}
	for _, lr := range m.requests {
		if lr.EmployeeID != employeeID {
			continue
		}
		switch lr.Status {
		case leave.StatusPending:
			s.Pending++
		case leave.StatusApproved:
			s.Approved++
			s.ApprovedDays = s.ApprovedDays.Add(lr.NumberOfDays)
		case leave.StatusRejected:
			s.Rejected++
		}
		s.Total++
	}
	return s, nil
}

type recordingEmailService struct {
	decisions []email.LeaveDecisionData
}

func (r *recordingEmailService) SendWelcome(ctx context.Context, data email.WelcomeData) error {
	return nil
}

func (r *recordingEmailService) SendLeaveDecision(ctx context.Context, data email.LeaveDecisionData) error {
	r.decisions = append(r.decisions, data)
	return nil
}

var admin = leave.Approver{EmployeeID: "admin-1", Name: "John Admin"}

func newTestService() (leave.LeaveService, *memoryLeaveRepository, *recordingEmailService) {
	repo := newMemoryLeaveRepository()
	mail := &recordingEmailService{}
	clock := calendar.NewFixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.UTC)
	return NewLeaveService(repo, mail, clock), repo, mail
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestApply_DefaultsDaysToSpan(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Apply(context.Background(), "emp-2", leave.CreateLeaveRequest{
		LeaveType: "PAID",
		StartDate: "2026-03-16",
		EndDate:   "2026-03-18",
		Reason:    "Family trip",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.True(t, resp.NumberOfDays.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "2026-03-16", resp.StartDate)
	assert.Nil(t, resp.ApprovalDate)
}

func TestApply_HalfDay(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Apply(context.Background(), "emp-2", leave.CreateLeaveRequest{
		LeaveType:    "SICK",
		StartDate:    "2026-03-16",
		EndDate:      "2026-03-16",
		NumberOfDays: decimalPtr("0.5"),
		Reason:       "Dentist",
	})
	require.NoError(t, err)
	assert.Equal(t, "0.5", resp.NumberOfDays.String())
}

func TestApply_FullLeapYearSpan(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Apply(context.Background(), "emp-2", leave.CreateLeaveRequest{
		LeaveType: "UNPAID",
		StartDate: "2028-01-01",
		EndDate:   "2028-12-31",
		Reason:    "Sabbatical",
	})
	require.NoError(t, err)
	assert.True(t, resp.NumberOfDays.Equal(decimal.NewFromInt(366)))
}

func TestApply_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name  string
		req   leave.CreateLeaveRequest
		field string
	}{
		{"missing type", leave.CreateLeaveRequest{StartDate: "2026-03-16", EndDate: "2026-03-16", Reason: "x"}, "leave_type"},
		{"bad type", leave.CreateLeaveRequest{LeaveType: "VACATION", StartDate: "2026-03-16", EndDate: "2026-03-16", Reason: "x"}, "leave_type"},
		{"end before start", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "2026-03-16", EndDate: "2026-03-15", Reason: "x"}, "end_date"},
		{"too many days", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "2026-03-16", EndDate: "2026-03-17", NumberOfDays: decimalPtr("3"), Reason: "x"}, "number_of_days"},
		{"not a half multiple", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "2026-03-16", EndDate: "2026-03-17", NumberOfDays: decimalPtr("1.25"), Reason: "x"}, "number_of_days"},
		{"zero days", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "2026-03-16", EndDate: "2026-03-17", NumberOfDays: decimalPtr("0"), Reason: "x"}, "number_of_days"},
		{"missing reason", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "2026-03-16", EndDate: "2026-03-17"}, "reason"},
		{"bad date", leave.CreateLeaveRequest{LeaveType: "PAID", StartDate: "16/03/2026", EndDate: "2026-03-17", Reason: "x"}, "start_date"},
		{"span too long", leave.CreateLeaveRequest{LeaveType: "UNPAID", StartDate: "2026-01-01", EndDate: "2054-12-31", Reason: "x"}, "end_date"},
		{"span past a year", leave.CreateLeaveRequest{LeaveType: "UNPAID", StartDate: "2026-01-01", EndDate: "2027-01-02", Reason: "x"}, "end_date"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Apply(context.Background(), "emp-2", c.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), c.field)
		})
	}
}

func apply(t *testing.T, svc leave.LeaveService, employeeID string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), employeeID, leave.CreateLeaveRequest{
		LeaveType: "PAID",
		StartDate: "2026-03-16",
		EndDate:   "2026-03-17",
		Reason:    "Trip",
	})
	require.NoError(t, err)
	return resp
}

func TestDecide_ApproveNotifiesApplicant(t *testing.T) {
	svc, _, mail := newTestService()
	lr := apply(t, svc, "emp-2")

	resp, err := svc.Decide(context.Background(), admin, leave.DecideLeaveRequest{
		ID:               lr.ID,
		Status:           "APPROVED",
		ApprovalComments: strPtr("Enjoy"),
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, "admin-1", *resp.ApprovedByID)
	require.NotNil(t, resp.ApprovalDate)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), resp.ApprovalDate.UTC())

	require.Len(t, mail.decisions, 1)
	assert.Equal(t, "alice@dayflow.com", mail.decisions[0].To)
	assert.Equal(t, "APPROVED", mail.decisions[0].Status)
	assert.Equal(t, "Enjoy", mail.decisions[0].Comments)
	assert.Equal(t, "2", mail.decisions[0].NumberOfDays)
}

func TestDecide_OnlyPendingOnce(t *testing.T) {
	svc, _, mail := newTestService()
	lr := apply(t, svc, "emp-2")
	ctx := context.Background()

	_, err := svc.Decide(ctx, admin, leave.DecideLeaveRequest{ID: lr.ID, Status: "REJECTED"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, admin, leave.DecideLeaveRequest{ID: lr.ID, Status: "APPROVED"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Len(t, mail.decisions, 1)
}

func TestDecide_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	lr := apply(t, svc, "emp-2")

	for _, status := range []string{"PENDING", "approved", ""} {
		_, err := svc.Decide(context.Background(), admin, leave.DecideLeaveRequest{ID: lr.ID, Status: status})
		assert.ErrorIs(t, err, leave.ErrInvalidDecisionStatus, status)
	}
}

func TestDecide_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Decide(context.Background(), admin, leave.DecideLeaveRequest{ID: uuid.NewString(), Status: "APPROVED"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestListMineAndStats(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := apply(t, svc, "emp-2")
	apply(t, svc, "emp-2")
	apply(t, svc, "emp-3")

	_, err := svc.Decide(ctx, admin, leave.DecideLeaveRequest{ID: first.ID, Status: "APPROVED"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "emp-2", leave.ListLeaveRequest{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending := "PENDING"
	mine, err = svc.ListMine(ctx, "emp-2", leave.ListLeaveRequest{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	stats, err := svc.MyStats(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 2, stats.Total)
	assert.True(t, stats.ApprovedDays.Equal(decimal.NewFromInt(2)))

	all, err := svc.List(ctx, leave.ListLeaveRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bad := "CANCELLED"
	_, err = svc.List(ctx, leave.ListLeaveRequest{Status: &bad})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
