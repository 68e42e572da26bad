package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env         string
	Version     string
	CORSOrigins []string
	LogLevel    slog.Level
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Employee   EmployeeHandler
	Tenant     TenantHandler
	Events     EventsHandler
}

func NewRouter(opts RouterOptions, jwtService jwt.Service, tenantRouter tenant.Router, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/login", h.Auth.EmployeeLogin)
				r.Post("/admin/login", h.Auth.AdminLogin)
				r.Post("/master/login", h.Auth.MasterLogin)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService))
				r.Post("/logout", h.Auth.Logout)
				r.With(middleware.AdminOnly).Post("/sse-token", h.Auth.SSEToken)
			})
		})

		// SSE authenticates with its own short-lived query token
		r.Get("/events", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Route("/tenants", func(r chi.Router) {
				r.Use(middleware.MasterOnly)
				r.Get("/", h.Tenant.List)
				r.Post("/", h.Tenant.Create)
				r.Put("/{code}/status", h.Tenant.SetActive)
				r.Put("/{code}/recipients", h.Tenant.UpdateRecipients)
			})

			// Everything below runs against the caller's tenant store
			r.Group(func(r chi.Router) {
				r.Use(middleware.TenantStore(tenantRouter))

				r.Route("/attendance", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.EmployeeOnly)
						r.Post("/punch", h.Attendance.Punch)
						r.Post("/punch/out", h.Attendance.PunchOut)
						r.Get("/me", h.Attendance.GetMyAttendance)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/employees/{id}", h.Attendance.ListForEmployee)
						r.Get("/open", h.Attendance.ListOpen)
					})
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Payroll.CompanyReport)
					r.Get("/employees/{id}", h.Payroll.EmployeeReport)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Delete)
				})
			})
		})
	})
	return r
}
