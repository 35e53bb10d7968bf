// Package jobboard предоставляет маршруты приложения.
package jobboard

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/remote-jobboard/internal/guard"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/auth/callback"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/health"
	joblist "github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/job/list"
	jobread "github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/job/read"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/handlers/upgrade"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/coordinator"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/jobs"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, coord *coordinator.Coordinator, backend *supabase.Client, jobsService *jobs.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	loginLimiter := rate.NewLimiter(rate.Every(time.Second), 3)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, loginLimiter))
			r.Post("/login", login.New(logger, backend).ServeHTTP)
		})
		r.Get("/auth/callback", callback.New(logger, backend).ServeHTTP)
		r.Post("/logout", logout.New(logger, coord).ServeHTTP)
		r.Get("/session", session.New(logger, coord).ServeHTTP)
		r.Get("/upgrade", upgrade.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Маршруты, требующие зрителя с действующей подпиской
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuardMiddleware(logger, coord, guard.Requirement{NeedsEntitlement: true}))
			r.Get("/jobs", joblist.New(logger, jobsService).ServeHTTP)
			r.Get("/jobs/{id}", jobread.New(logger, jobsService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
