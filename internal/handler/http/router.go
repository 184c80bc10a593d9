package http

import (
	"log/slog"
	"net/netip"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/middleware"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth              AuthHandler
	Attendance        AttendanceHandler
	EmployeeDashboard EmployeeDashboardHandler
	Employee          EmployeeHandler
	Report            ReportHandler
	Dashboard         DashboardHandler
	SecurityLog       SecurityLogHandler
	Event             EventHandler
}

func NewRouter(logger *slog.Logger, JWTService jwt.Service, frontendURL string, trustedProxies []netip.Prefix, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	// Client IP feeds the geofence cross-check
	r.Use(middleware.TrustedRealIP(trustedProxies))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		// Authenticated by a short-lived token in the query string
		r.Get("/events", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/sse-token", h.Auth.SSEToken)

			r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/me", h.Employee.GetMyProfile)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/tap", h.Attendance.Tap)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/today", h.Attendance.Today)
					r.Get("/my", h.Attendance.GetMyAttendance)
					r.Get("/my/summary", h.EmployeeDashboard.GetAttendanceSummary)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/attendance", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.ListDaily)
					r.Delete("/{id}", h.Attendance.Delete)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/departments", h.Employee.ListDepartments)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/monthly", h.Report.GetMonthlyAttendanceReport)
					r.Get("/monthly/export", h.Report.ExportMonthlyAttendanceReport)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/", h.Dashboard.GetDashboard)
					r.Get("/daily-recap", h.Dashboard.GetDailyRecap)
				})

				r.With(middleware.RequirePermission(user.PermissionSecurityLogView)).
					Get("/security-logs", h.SecurityLog.List)
			})
		})
	})
	return r
}
