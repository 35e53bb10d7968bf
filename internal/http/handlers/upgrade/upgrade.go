// Package upgrade реализует HTTP-обработчик страницы повышения тарифа.
// Оплата не обрабатывается: обработчик лишь отдаёт каталог планов,
// на который guard перенаправляет зрителей без действующей подписки.
package upgrade

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remote-jobboard/internal/http/response"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// Plan — позиция каталога планов на странице повышения тарифа.
type Plan struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Price string `json:"price"`
}

// Handler обрабатывает запросы страницы повышения тарифа.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Каталог планов
// @Description Возвращает доступные планы подписки. Оплата не выполняется.
// @Tags Upgrade
// @Produce json
// @Success 200 {object} map[string]any "Планы подписки"
// @Router /upgrade [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans := []Plan{
		{Name: "Monthly", Kind: "monthly", Price: "$9/mo"},
		{Name: "Yearly", Kind: "yearly", Price: "$79/yr"},
		{Name: "Lifetime", Kind: models.PlanLifetime, Price: "$199"},
	}

	log.Info("upgrade page served")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plans":   plans,
		"message": "checkout is not available yet",
	}))
}
