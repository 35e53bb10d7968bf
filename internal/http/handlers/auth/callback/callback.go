// Package callback реализует HTTP-обработчик возврата по magic link.
//
// Ссылка из письма ведёт сюда с token_hash в query-параметрах; обработчик
// обменивает его на сессию у бэкенда, после чего координатор через событие
// SIGNED_IN начинает новый цикл разрешения.
package callback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

// Service описывает операцию обмена token_hash на сессию.
type Service interface {
	VerifyOtp(ctx context.Context, tokenHash string) (*models.Session, error)
}

// Handler обрабатывает возврат по magic link.
type Handler struct {
	log     *slog.Logger
	backend Service
}

// New создает новый Handler.
func New(log *slog.Logger, backend Service) *Handler {
	return &Handler{log: log, backend: backend}
}

// ServeHTTP godoc
// @Summary Подтверждение magic link
// @Description Обменивает token_hash из письма на сессию зрителя.
// @Tags Auth
// @Produce json
// @Param token_hash query string true "Токен из magic link"
// @Success 200 {object} map[string]any "Зритель аутентифицирован"
// @Failure 400 {object} response.ErrorResponse "Отсутствует token_hash"
// @Failure 401 {object} response.ErrorResponse "Ссылка недействительна или просрочена"
// @Router /auth/callback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.callback"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tokenHash := r.URL.Query().Get("token_hash")
	if tokenHash == "" {
		log.Error("missing token_hash in callback")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing token_hash"))
		return
	}

	sess, err := h.backend.VerifyOtp(r.Context(), tokenHash)
	if err != nil {
		log.Error("failed to verify magic link", sl.Err(err))
		if errors.Is(err, supabase.ErrInvalidLink) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired link"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("authentication backend unavailable"))
		return
	}

	log.Info("viewer signed in", slog.String("email", sess.Viewer.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"viewer": sess.Viewer,
	}))
}
