package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// TenantStore resolves the company code carried in the token and attaches
// the tenant and its store to the request context.
func TenantStore(router tenant.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			db, t, err := router.Resolve(r.Context(), claims.CompanyCode)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := database.WithStore(r.Context(), db)
			ctx = tenant.WithTenant(ctx, t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
