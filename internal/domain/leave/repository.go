package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequestWithNames, error)
	// List returns requests newest first.
	List(ctx context.Context, filter Filter) ([]LeaveRequestWithNames, error)
	// ListRecentlyDecided returns approved or rejected requests by last update.
	ListRecentlyDecided(ctx context.Context, limit int) ([]LeaveRequestWithNames, error)
	// Decide only touches requests that are still pending and returns
	// ErrLeaveRequestAlreadyProcessed otherwise.
	Decide(ctx context.Context, id string, decision Decision) error
	Stats(ctx context.Context, employeeID string) (Stats, error)
}
