// Package login реализует HTTP-обработчик входа по magic link.
//
// Обработчик принимает почту, валидирует её и просит бэкенд отправить
// ссылку для входа. Пароля нет: сессия появится после перехода по ссылке
// через обработчик callback.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

// Request — структура входных данных для запроса magic link.
type Request struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to,omitempty" validate:"omitempty,url"` // Куда вернуть зрителя после перехода по ссылке
}

// Service описывает операцию отправки magic link.
type Service interface {
	SignInWithOtp(ctx context.Context, email, redirectTo string) error
}

// Handler обрабатывает запросы на отправку magic link.
type Handler struct {
	log      *slog.Logger
	backend  Service
	validate *validator.Validate
}

// New создает новый Handler с указанными логгером и клиентом бэкенда.
func New(log *slog.Logger, backend Service) *Handler {
	return &Handler{
		log:      log,
		backend:  backend,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по magic link
// @Description Отправляет ссылку для входа на указанную почту.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Почта зрителя"
// @Success 200 {object} map[string]any "Ссылка отправлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Бэкенд не смог отправить ссылку"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.backend.SignInWithOtp(r.Context(), req.Email, req.RedirectTo); err != nil {
		log.Error("failed to send magic link", sl.Err(err))
		if errors.Is(err, supabase.ErrDelivery) {
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to send magic link"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("authentication backend unavailable"))
		return
	}

	log.Info("magic link sent", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "magic link sent",
		"email":   req.Email,
	}))
}
