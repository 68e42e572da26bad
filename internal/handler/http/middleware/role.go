package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

// RequireRole admits requests whose token carries one of roles.
func RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' is not allowed", claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

var (
	EmployeeOnly = RequireRole(jwt.RoleEmployee)
	AdminOnly    = RequireRole(jwt.RoleAdmin)
	MasterOnly   = RequireRole(jwt.RoleMaster)
)
