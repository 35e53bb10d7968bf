// Package session реализует HTTP-обработчик чтения среза состояния
// координатора. Публичный маршрут: по нему оболочка приложения узнаёт,
// кто залогинен и разрешены ли уже аутентификация и подписка.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// Provider отдаёт текущий срез состояния координатора.
type Provider interface {
	Snapshot() models.Snapshot
}

// Handler обрабатывает запросы текущего состояния сессии.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{log: log, provider: provider}
}

// ServeHTTP godoc
// @Summary Текущее состояние сессии
// @Description Возвращает зрителя, доступ и флаги готовности.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any "Срез состояния"
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.session"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snap := h.provider.Snapshot()
	log.Info("session snapshot served",
		slog.Bool("auth_resolved", snap.AuthResolved),
		slog.Bool("subscription_resolved", snap.SubscriptionResolved))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session": snap,
	}))
}
