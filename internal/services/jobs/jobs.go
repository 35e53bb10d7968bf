// Package jobs содержит бизнес-логику чтения вакансий: кеш списка и карточек
// с TTL, ограниченные по времени запросы к бэкенду и откат на устаревший кеш
// при сбоях. Фильтрация и пагинация выполняются в памяти.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/remote-jobboard/internal/config"
	"github.com/magabrotheeeer/remote-jobboard/internal/lib/sl"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

const jobsListKey = "jobs:list"

// ErrUnavailable — список недоступен и нечем его подменить; обработчик
// показывает зрителю предложение повторить запрос.
var ErrUnavailable = errors.New("jobs unavailable and no cache to fall back on")

// Source описывает источник вакансий.
type Source interface {
	// Jobs возвращает полный список вакансий, новые первыми.
	Jobs(ctx context.Context) ([]*models.Job, error)
	// JobByID возвращает вакансию либо ошибку отсутствия.
	JobByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// Cache описывает кеш подсказок.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, time.Time, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует чтение вакансий поверх бэкенда и кеша.
type Service struct {
	src          Source
	cache        Cache
	log          *slog.Logger
	fetchTimeout time.Duration
	listTTL      time.Duration
	detailTTL    time.Duration

	now func() time.Time
}

// New создает сервис вакансий.
func New(src Source, cache Cache, log *slog.Logger, fetchTimeout time.Duration, ttl config.CacheTTL) *Service {
	return &Service{
		src:          src,
		cache:        cache,
		log:          log,
		fetchTimeout: fetchTimeout,
		listTTL:      ttl.JobList,
		detailTTL:    ttl.JobDetail,
		now:          time.Now,
	}
}

// List возвращает страницу вакансий по фильтру и общее число совпадений.
//
// Свежий кеш используется без похода в бэкенд. При сбое или таймауте запроса
// кеш идёт в ход даже устаревший — список вакансий лучше показать вчерашним,
// чем не показать вовсе. Ошибка наружу уходит только когда подменить нечем.
func (s *Service) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	const op = "jobs.List"

	var cached []*models.Job
	found, fetchedAt, cerr := s.cache.Get(ctx, jobsListKey, &cached)
	if cerr != nil {
		s.log.Warn("job list cache read failed", sl.Op(op), sl.Err(cerr))
		found = false
	}
	if found && s.now().Sub(fetchedAt) < s.listTTL {
		page, total := Apply(cached, filter)
		return page, total, nil
	}

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	fetched, err := s.src.Jobs(fctx)
	cancel()
	if err != nil {
		if found {
			s.log.Warn("job list fetch failed, serving stale cache", sl.Op(op), sl.Err(err))
			page, total := Apply(cached, filter)
			return page, total, nil
		}
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	if cerr := s.cache.Set(ctx, jobsListKey, fetched); cerr != nil {
		s.log.Warn("failed to cache job list", sl.Op(op), sl.Err(cerr))
	}
	page, total := Apply(fetched, filter)
	return page, total, nil
}

// Get возвращает вакансию по идентификатору, используя кеш карточек.
// Отсутствие вакансии пробрасывается как supabase.ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	const op = "jobs.Get"
	key := "job:" + id.String()

	var cached models.Job
	found, fetchedAt, cerr := s.cache.Get(ctx, key, &cached)
	if cerr != nil {
		s.log.Warn("job cache read failed", sl.Op(op), sl.Err(cerr))
		found = false
	}
	if found && s.now().Sub(fetchedAt) < s.detailTTL {
		return &cached, nil
	}

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	job, err := s.src.JobByID(fctx, id)
	cancel()
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			if cerr := s.cache.Invalidate(ctx, key); cerr != nil {
				s.log.Warn("failed to invalidate job cache", sl.Op(op), sl.Err(cerr))
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if found {
			s.log.Warn("job fetch failed, serving stale cache", sl.Op(op), sl.Err(err))
			return &cached, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cerr := s.cache.Set(ctx, key, job); cerr != nil {
		s.log.Warn("failed to cache job", sl.Op(op), sl.Err(cerr))
	}
	return job, nil
}
