package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/requestctx"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/telemetry"
	"github.com/go-chi/httplog/v3"
)

// EmployeeLookup resolves the employee linked to an identity.
type EmployeeLookup interface {
	GetByIdentityUID(ctx context.Context, uid string) (employee.Employee, error)
}

// RequireRole loads the caller's employee record and checks its role. With no
// roles any registered employee is admitted.
func RequireRole(lookup EmployeeLookup, roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := requestctx.GetIdentity(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrUnauthenticated)
				return
			}

			emp, err := lookup.GetByIdentityUID(r.Context(), identity.UID)
			if err != nil {
				slog.Debug("employee lookup failed", "uid", identity.UID, "error", err)
				response.HandleError(w, err)
				return
			}

			if len(roles) > 0 && !slices.Contains(roles, emp.Role) {
				response.HandleError(w, employee.ErrInsufficientRole)
				return
			}

			ctx := requestctx.WithEmployee(r.Context(), emp)
			telemetry.TagEmployee(ctx, emp.ID, string(emp.Role))
			httplog.SetAttrs(ctx, slog.String("employee_id", emp.ID), slog.String("employee_role", string(emp.Role)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly admits employees with the ADMIN role.
func AdminOnly(lookup EmployeeLookup) func(http.Handler) http.Handler {
	return RequireRole(lookup, employee.RoleAdmin)
}
