package jobs

import (
	"sort"
	"strings"

	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// Ограничения пагинации списка вакансий.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Apply фильтрует, сортирует и нарезает список вакансий в памяти.
// Возвращает страницу и общее число совпадений до пагинации.
// Исходный срез не изменяется.
func Apply(all []*models.Job, f models.JobFilter) ([]*models.Job, int) {
	matched := make([]*models.Job, 0, len(all))
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, job := range all {
		if job == nil {
			continue
		}
		if f.Category != "" && job.Category != f.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(job.Title), query) &&
			!strings.Contains(strings.ToLower(job.Company), query) {
			continue
		}
		matched = append(matched, job)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*models.Job{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total
}
