// Package middlewarectx содержит HTTP middleware приложения: допуск к маршрутам
// по решению guard'а и ограничение частоты запросов magic link.
//
// Guard-решения переводятся на язык HTTP: Loading — 202 с Retry-After,
// Redirect — 303 с Location, Render — передача запроса дальше.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/guard"
	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// SnapshotProvider отдаёт текущий срез состояния координатора.
type SnapshotProvider interface {
	Snapshot() models.Snapshot
}

// GuardMiddleware возвращает middleware, которое на каждый запрос
// пересчитывает решение guard'а по свежему срезу координатора.
// Сырые ошибки бэкенда сюда не доходят: guard видит только разрешённое состояние.
func GuardMiddleware(log *slog.Logger, provider SnapshotProvider, req guard.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.GuardMiddleware"

			decision := guard.Decide(provider.Snapshot(), req)
			switch decision.Kind {
			case guard.Loading:
				log.Info("state not resolved yet, asking client to retry",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusAccepted)
				render.JSON(w, r, response.Loading())
			case guard.Redirect:
				log.Info("viewer redirected",
					slog.String("op", op),
					slog.String("target", string(decision.Target)),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.Header().Set("Location", string(decision.Target))
				w.WriteHeader(http.StatusSeeOther)
				render.JSON(w, r, response.Redirect(string(decision.Target)))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
