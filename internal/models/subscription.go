package models

// Известные значения плана и статуса подписки в таблице subscriptions.
const (
	PlanLifetime = "lifetime"

	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Subscription — сырая запись о подписке, как она приходит из таблицы бэкенда.
// Дата окончания хранится строкой: её разбор и трактовка некорректных значений —
// обязанность резолвера, а не слоя транспорта.
type Subscription struct {
	Email      string `json:"email"`                 // Почта владельца подписки
	Plan       string `json:"plan"`                  // lifetime либо срочный план (monthly, yearly...)
	Status     string `json:"status"`                // active, canceled, expired
	ExpiryDate string `json:"expiry_date,omitempty"` // Дата окончания для срочных планов
}
