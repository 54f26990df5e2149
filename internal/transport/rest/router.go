package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/auth"
	"github.com/reliefops/duty-management/internal/dashboard"
	"github.com/reliefops/duty-management/internal/department"
	"github.com/reliefops/duty-management/internal/gate"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
	"github.com/reliefops/duty-management/internal/transport/middleware"
)

// Handlers carries every mounted handler. Nil entries are simply not routed,
// which keeps degraded deployments (no database, no auth secret) bootable.
type Handlers struct {
	Auth       *auth.Handler
	Personnel  *personnel.Handler
	Department *department.Handler
	Schedule   *schedule.Handler
	Attendance *attendance.Handler
	Swap       *swap.Handler
	Dashboard  *dashboard.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, h Handlers, sessions middleware.SessionValidator, resolver *gate.Resolver, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/signup", h.Auth.SignUp)
				sr.Post("/signin", h.Auth.SignIn)
				sr.Post("/signout", h.Auth.SignOut)
				sr.Get("/session", h.Auth.GetSession)
				sr.Post("/password/reset", h.Auth.ResetPassword)
				sr.Post("/password/reset/confirm", h.Auth.RedeemReset)
			})
		}

		if sessions == nil || resolver == nil {
			return
		}

		// Protected routes that require an authenticated, active profile
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Auth(sessions, resolver, logger))

			if h.Auth != nil {
				pr.Post("/auth/password", h.Auth.UpdatePassword)
			}

			if h.Dashboard != nil {
				pr.Get("/dashboard", h.Dashboard.GetStats)
			}

			if h.Personnel != nil {
				pr.Route("/personnel", func(er chi.Router) {
					er.Get("/", h.Personnel.ListPersonnel)
					er.Get("/{id}", h.Personnel.GetPersonnel)

					// Personnel management is admin territory; deleting a
					// person cascades through their schedules, attendance
					// and swap requests.
					er.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin)
						ar.Post("/", h.Personnel.CreatePersonnel)
						ar.Put("/{id}", h.Personnel.UpdatePersonnel)
						ar.Delete("/{id}", h.Personnel.DeletePersonnel)
					})
				})
			}

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.ListDepartments)
					dr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin)
						ar.Post("/", h.Department.CreateDepartment)
					})
				})
			}

			if h.Schedule != nil {
				pr.Route("/schedules", func(sr chi.Router) {
					sr.Get("/", h.Schedule.ListSchedules)
					sr.Get("/{id}", h.Schedule.GetSchedule)
					sr.Get("/personnel/{personnelID}", h.Schedule.ListByPersonnel)

					sr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin)
						ar.Post("/", h.Schedule.CreateSchedule)
						ar.Put("/{id}", h.Schedule.UpdateSchedule)
						ar.Delete("/{id}", h.Schedule.DeleteSchedule)
					})
				})
			}

			if h.Attendance != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.Get("/", h.Attendance.ListAttendance)
					ar.Get("/summary", h.Attendance.GetSummary)
					ar.Post("/check-in", h.Attendance.CheckIn)
					ar.Post("/{id}/check-out", h.Attendance.CheckOut)
					ar.Post("/status", h.Attendance.MarkStatus)
					ar.Put("/{id}", h.Attendance.UpdateAttendance)
				})
			}

			if h.Swap != nil {
				pr.Route("/swaps", func(wr chi.Router) {
					wr.Get("/", h.Swap.ListSwapRequests)
					wr.Post("/", h.Swap.CreateSwapRequest)

					wr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin)
						ar.Post("/{id}/approve", h.Swap.Approve)
						ar.Post("/{id}/reject", h.Swap.Reject)
					})
				})
			}
		})
	})
}
