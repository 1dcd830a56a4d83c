package http

import (
	"log/slog"
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/middleware"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const UploadsPath = "/uploads"

type RouterConfig struct {
	Env                string
	CORSAllowedOrigins []string
	BodyLimitBytes     int64
	// DevHeaderAuth replaces bearer verification with the X-Firebase-* headers.
	DevHeaderAuth bool
	// UploadsDir is served read-only under UploadsPath when set.
	UploadsDir  string
	ServiceName string
	Logger      *slog.Logger
}

type Handlers struct {
	// Auth is nil when an external provider issues the tokens.
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
}

func NewRouter(cfg RouterConfig, verifier middleware.TokenVerifier, employees middleware.EmployeeLookup, h Handlers) http.Handler {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	isDev := cfg.Env == "development"

	// RequestID runs inside the logger so its attrs land on the access log.
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS.Concise(isDev),
	}))
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader, middleware.DevUIDHeader, middleware.DevEmailHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:           300,
	}))
	r.Use(middleware.SecureHeaders(cfg.Env == "production"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed")
	})

	r.Get("/health", Health)

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix(UploadsPath, http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get(UploadsPath+"/*", fs.ServeHTTP)
	}

	authenticate := middleware.Authenticate(verifier)
	if cfg.DevHeaderAuth {
		authenticate = middleware.DevHeaderAuth(isDev)
	}
	anyEmployee := middleware.RequireRole(employees)
	adminOnly := middleware.AdminOnly(employees)

	r.Route("/api", func(r chi.Router) {

		if h.Auth != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Auth.Login)
				r.With(authenticate).Post("/change-password", h.Auth.ChangePassword)
			})
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(anyEmployee)
					r.Get("/me", h.Employee.GetMe)
					r.Put("/me", h.Employee.UpdateMe)
					r.Put("/me/avatar", h.Employee.UploadAvatar)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(anyEmployee)
					r.Get("/my", h.Attendance.ListMine)
					r.Post("/mark", h.Attendance.Mark)
					r.Get("/summary/my", h.Attendance.MySummary)
				})

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Attendance.List)
					r.Put("/{id}", h.Attendance.Update)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(anyEmployee)
					r.Get("/my", h.Leave.ListMine)
					r.Post("/", h.Leave.Apply)
					r.Get("/stats/my", h.Leave.MyStats)
				})

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Leave.List)
					r.Put("/{id}", h.Leave.Decide)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(anyEmployee)
					r.Get("/my", h.Payroll.ListMine)
					r.Get("/summary/my", h.Payroll.MyCurrent)
					r.Get("/{id}/payslip", h.Payroll.Payslip)
				})

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Payroll.List)
					r.Post("/", h.Payroll.Create)
					r.Put("/{id}", h.Payroll.Update)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(anyEmployee).Get("/employee", h.Dashboard.GetEmployeeDashboard)
				r.With(adminOnly).Get("/admin", h.Dashboard.GetAdminDashboard)
			})
		})
	})

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "dayflow-api"
	}
	return otelhttp.NewHandler(r, serviceName)
}
