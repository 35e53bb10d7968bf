// Package models содержит доменные структуры приложения: зрителя (аутентифицированного
// пользователя), сессию внешнего бэкенда, запись о подписке и вакансии.
// Структуры используются в бизнес-логике, кэше и HTTP-ответах.
package models

import "time"

// Viewer представляет аутентифицированного пользователя или его отсутствие (nil).
// Владельцем значения является координатор, все остальные компоненты
// получают его только на чтение.
type Viewer struct {
	UID   string `json:"uid"`   // Уникальный идентификатор, claim "sub" токена
	Email string `json:"email"` // Электронная почта пользователя
}

// Session хранит выданную внешним бэкендом пару токенов и распакованного
// из access-токена зрителя.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"` // Момент истечения access-токена
	Viewer       Viewer    `json:"viewer"`
}

// Expired сообщает, истёк ли access-токен к моменту now с учётом зазора leeway.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	return !s.ExpiresAt.After(now.Add(leeway))
}
