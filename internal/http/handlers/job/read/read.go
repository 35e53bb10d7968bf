// Package read реализует HTTP-обработчик чтения вакансии по идентификатору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

// Service описывает бизнес-логику чтения вакансии.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// Handler обрабатывает запросы карточки вакансии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка вакансии
// @Description Возвращает вакансию по идентификатору.
// @Tags Jobs
// @Produce json
// @Param id path string true "Идентификатор вакансии"
// @Success 200 {object} map[string]any "Вакансия"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Вакансия не найдена"
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.read"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid job id"))
		return
	}

	job, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			log.Info("job not found", slog.String("id", id.String()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("job not found"))
			return
		}
		log.Error("failed to read job", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read job"))
		return
	}

	log.Info("job served", slog.String("id", id.String()))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"job": job,
	}))
}
