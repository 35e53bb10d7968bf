package supabase

import "errors"

// Ошибки уровня коллаборатора. Вся остальная детализация (HTTP-статусы,
// транспортные сбои) заворачивается в эти значения через %w.
var (
	// ErrUnavailable — бэкенд недоступен: транспортная ошибка или 5xx.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound — запрошенная запись отсутствует; это не сбой.
	ErrNotFound = errors.New("record not found")
	// ErrDelivery — бэкенд отказался отправлять magic link.
	ErrDelivery = errors.New("magic link delivery failed")
	// ErrInvalidLink — token_hash из magic link отклонён или просрочен.
	ErrInvalidLink = errors.New("invalid or expired link")
)
