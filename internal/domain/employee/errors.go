package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeRecordNotFound = errors.New("employee record not found")
	ErrEmailExists            = errors.New("email already exists")
	ErrEmployeeCodeExists     = errors.New("employee code already exists")
	ErrIdentityAlreadyLinked  = errors.New("identity already linked to an employee")
	ErrInsufficientRole       = errors.New("insufficient permissions to access this resource")
	ErrInvalidAvatar          = errors.New("invalid avatar image")
)
