// Package requestctx carries per-request values set by the HTTP middleware.
package requestctx

import (
	"context"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	identityKey  ctxKey = "identity"
	employeeKey  ctxKey = "employee"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the identity attached by the authentication middleware.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

func WithEmployee(ctx context.Context, emp employee.Employee) context.Context {
	return context.WithValue(ctx, employeeKey, emp)
}

// GetEmployee returns the employee attached by the role middleware.
func GetEmployee(ctx context.Context) (employee.Employee, bool) {
	emp, ok := ctx.Value(employeeKey).(employee.Employee)
	return emp, ok
}
