// Package entitlement содержит чистую функцию разрешения записи о подписке
// в решение о платном доступе. Никаких побочных эффектов: ни кеша, ни таймеров —
// функция вызывается синхронно и тестируется в изоляции.
package entitlement

import (
	"time"

	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// Форматы даты окончания, встречающиеся в таблице subscriptions:
// колонка date приходит как "2006-01-02", timestamp — как RFC3339.
var expiryLayouts = []string{"2006-01-02", time.RFC3339}

// Resolve возвращает запись, если она даёт действующий платный доступ
// на момент now, иначе nil.
//
// Правила:
//   - нет записи или статус не active — nil;
//   - план lifetime со статусом active действует всегда;
//   - срочный план действует, пока дата окончания не в прошлом; сравнение
//     идёт по календарным дням, подписка с окончанием "сегодня" действует
//     весь день;
//   - нечитаемая дата окончания трактуется как отсутствие доступа, не паника.
func Resolve(rec *models.Subscription, now time.Time) *models.Subscription {
	if rec == nil || rec.Status != models.StatusActive {
		return nil
	}
	if rec.Plan == models.PlanLifetime {
		return rec
	}

	expiry, ok := parseExpiry(rec.ExpiryDate)
	if !ok {
		return nil
	}
	if dateOnly(expiry).Before(dateOnly(now)) {
		return nil
	}
	return rec
}

func parseExpiry(raw string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
