package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIdentityUID(ctx context.Context, uid string) (Employee, error)
	// ExistsByEmail ignores the employee with excludeID when it is non-empty.
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, id string, changes Changes) (Employee, error)
	// NextCodeSequence atomically advances the global employee code counter.
	NextCodeSequence(ctx context.Context) (int, error)
}
