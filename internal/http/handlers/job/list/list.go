// Package list реализует HTTP-обработчик списка вакансий с фильтрацией
// и пагинацией через query-параметры.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/services/jobs"
)

// Service описывает бизнес-логику чтения списка вакансий.
type Service interface {
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error)
}

// Handler обрабатывает запросы списка вакансий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список вакансий
// @Description Возвращает страницу вакансий по фильтру, новые первыми.
// @Tags Jobs
// @Produce json
// @Param q query string false "Поиск по названию и компании"
// @Param category query string false "Категория"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Страница вакансий"
// @Failure 503 {object} response.ErrorResponse "Список недоступен, повторите запрос"
// @Security BearerAuth
// @Router /jobs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.list"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.JobFilter{
		Query:    query.Get("q"),
		Category: query.Get("category"),
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(query.Get("offset")); err == nil {
		filter.Offset = v
	}

	page, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list jobs", sl.Err(err))
		if errors.Is(err, jobs.ErrUnavailable) {
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("failed to load jobs, please retry"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list jobs"))
		return
	}

	log.Info("job list served", slog.Int("total", total), slog.Int("page_size", len(page)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"jobs":  page,
		"total": total,
	}))
}
