package models

import (
	"time"

	"github.com/google/uuid"
)

// Job представляет вакансию из таблицы jobs.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Salary      string    `json:"salary,omitempty"`
	ApplyURL    string    `json:"apply_url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobFilter описывает параметры фильтрации и пагинации списка вакансий.
// Применяется к уже загруженному списку в памяти.
type JobFilter struct {
	Query    string // Подстрока для поиска по названию и компании
	Category string // Точное совпадение категории, пустая строка — без фильтра
	Limit    int
	Offset   int
}
