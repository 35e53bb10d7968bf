// Package jobboard собирает приложение: клиента бэкенда, кеш, координатор,
// сервис вакансий и HTTP-сервер.
package jobboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/remote-jobboard/internal/cache"
	"github.com/magabrotheeeer/remote-jobboard/internal/config"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/coordinator"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/jobs"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

type App struct {
	server      *http.Server
	logger      *slog.Logger
	backend     *supabase.Client
	coordinator *coordinator.Coordinator
	unsubscribe func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	backend, err := supabase.New(cfg.SupabaseConnection, logger)
	if err != nil {
		return nil, err
	}

	// Кеш — подсказка, а не источник истины: без redis приложение
	// продолжает работать корректно, просто медленнее
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection, cfg.CacheTTL.Retain)
	if err != nil {
		logger.Warn("redis unavailable, running with cache disabled", sl.Err(err))
		cacheRedis = cache.Disabled()
	}

	coord := coordinator.New(backend, backend, cacheRedis, logger, cfg.Resolution)
	unsubscribe := backend.OnAuthStateChange(coord.HandleAuthEvent)

	jobsService := jobs.New(backend, cacheRedis, logger, cfg.Resolution.FetchTimeout, cfg.CacheTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, coord, backend, jobsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:      srv,
		logger:      logger,
		backend:     backend,
		coordinator: coord,
		unsubscribe: unsubscribe,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	// До завершения bootstrap guard отвечал бы Loading на каждый запрос,
	// поэтому трафик принимается только после него
	a.coordinator.Bootstrap(ctx)
	go a.backend.RunRefresh(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		a.unsubscribe()
		return a.server.Shutdown(timeoutCtx)
	}
}
