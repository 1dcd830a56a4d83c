package leave

import "context"

// Approver identifies the admin deciding a request.
type Approver struct {
	EmployeeID string
	Name       string
}

type LeaveService interface {
	ListMine(ctx context.Context, employeeID string, req ListLeaveRequest) ([]LeaveRequestResponse, error)
	Apply(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	MyStats(ctx context.Context, employeeID string) (StatsResponse, error)
	List(ctx context.Context, req ListLeaveRequest) ([]LeaveRequestResponse, error)
	Decide(ctx context.Context, approver Approver, req DecideLeaveRequest) (LeaveRequestResponse, error)
}
