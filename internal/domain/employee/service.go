package employee

import (
	"context"
	"io"
)

type EmployeeService interface {
	// Self service
	GetMyProfile(ctx context.Context, employeeID string) (ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, employeeID string, req UpdateMyProfileRequest) (EmployeeResponse, error)
	UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string) (EmployeeResponse, error)

	// Administration
	Create(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeListItem, error)
	GetByID(ctx context.Context, id string) (EmployeeDetailResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// Lookup for the role middleware
	GetByIdentityUID(ctx context.Context, uid string) (Employee, error)
}
