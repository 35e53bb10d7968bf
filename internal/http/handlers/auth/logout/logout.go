// Package logout реализует HTTP-обработчик выхода зрителя.
//
// Выход синхронен: к моменту ответа зритель и доступ уже сброшены,
// оба флага готовности подняты — guard не успеет принять решение
// по промежуточному состоянию.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
)

// Service описывает операцию выхода.
type Service interface {
	Logout(ctx context.Context)
}

// Handler обрабатывает запросы на выход.
type Handler struct {
	log         *slog.Logger
	coordinator Service
}

// New создает новый Handler.
func New(log *slog.Logger, coordinator Service) *Handler {
	return &Handler{log: log, coordinator: coordinator}
}

// ServeHTTP godoc
// @Summary Выход зрителя
// @Description Завершает сессию и синхронно очищает состояние.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any "Выход выполнен"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.coordinator.Logout(r.Context())

	log.Info("viewer signed out")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "signed out",
	}))
}
