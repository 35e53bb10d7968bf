package models

// Snapshot — единый согласованный срез состояния координатора.
// Guard и HTTP-слой читают только его и никогда не обращаются к бэкенду напрямую.
//
// Флаги готовности означают, что соответствующая часть состояния авторитетна,
// а не заглушка: AuthResolved — первоначальная проверка сессии завершена,
// SubscriptionResolved — попытка получить подписку текущего зрителя завершена
// (успехом, отсутствием записи или окончательной ошибкой).
type Snapshot struct {
	Viewer               *Viewer       `json:"viewer"`
	Entitlement          *Subscription `json:"entitlement"`
	AuthResolved         bool          `json:"auth_resolved"`
	SubscriptionResolved bool          `json:"subscription_resolved"`
}
