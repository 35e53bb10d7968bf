package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/remote-jobboard/internal/config"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
	"github.com/magabrotheeeer/remote-jobboard/internal/supabase"
)

type SourceMock struct{ mock.Mock }

func (m *SourceMock) Jobs(ctx context.Context) ([]*models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *SourceMock) JobByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, time.Time, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func makeService(src Source, cache Cache) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ttl := config.CacheTTL{JobList: 10 * time.Minute, JobDetail: 10 * time.Minute}
	return New(src, cache, logger, time.Second, ttl)
}

func TestList_FreshCacheSkipsBackend(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	cached := []*models.Job{makeJob("Go Developer", "Acme", "engineering", time.Hour)}

	cache.On("Get", mock.Anything, "jobs:list", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*[]*models.Job)
			*dest = cached
		}).
		Return(true, time.Now().Add(-time.Minute), nil)

	s := makeService(src, cache)
	page, total, err := s.List(ctx, models.JobFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Go Developer", page[0].Title)
	src.AssertNotCalled(t, "Jobs")
}

func TestList_FetchesAndCachesWhenCacheMisses(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	fetched := []*models.Job{
		makeJob("Go Developer", "Acme", "engineering", time.Hour),
		makeJob("Designer", "Globex", "design", 2*time.Hour),
	}

	cache.On("Get", mock.Anything, "jobs:list", mock.Anything).Return(false, time.Time{}, nil)
	src.On("Jobs", mock.Anything).Return(fetched, nil)
	cache.On("Set", mock.Anything, "jobs:list", fetched).Return(nil)

	s := makeService(src, cache)
	page, total, err := s.List(ctx, models.JobFilter{Category: "design"})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Designer", page[0].Title)
	cache.AssertExpectations(t)
}

func TestList_StaleCacheServedWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	cached := []*models.Job{makeJob("Go Developer", "Acme", "engineering", time.Hour)}

	// кеш устарел, но бэкенд лежит: вчерашний список лучше пустого экрана
	cache.On("Get", mock.Anything, "jobs:list", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*[]*models.Job)
			*dest = cached
		}).
		Return(true, time.Now().Add(-time.Hour), nil)
	src.On("Jobs", mock.Anything).Return(nil, errors.New("backend down"))

	s := makeService(src, cache)
	page, total, err := s.List(ctx, models.JobFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
}

func TestList_UnavailableWithoutCache(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)

	cache.On("Get", mock.Anything, "jobs:list", mock.Anything).Return(false, time.Time{}, nil)
	src.On("Jobs", mock.Anything).Return(nil, errors.New("backend down"))

	s := makeService(src, cache)
	_, _, err := s.List(ctx, models.JobFilter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestList_CacheReadErrorTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	fetched := []*models.Job{makeJob("Go Developer", "Acme", "engineering", time.Hour)}

	cache.On("Get", mock.Anything, "jobs:list", mock.Anything).Return(false, time.Time{}, errors.New("redis down"))
	src.On("Jobs", mock.Anything).Return(fetched, nil)
	cache.On("Set", mock.Anything, "jobs:list", fetched).Return(errors.New("redis down"))

	s := makeService(src, cache)
	page, total, err := s.List(ctx, models.JobFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
}

func TestGet_FreshCacheSkipsBackend(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	job := makeJob("Go Developer", "Acme", "engineering", time.Hour)

	cache.On("Get", mock.Anything, "job:"+job.ID.String(), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.Job)
			*dest = *job
		}).
		Return(true, time.Now().Add(-time.Minute), nil)

	s := makeService(src, cache)
	got, err := s.Get(ctx, job.ID)

	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
	src.AssertNotCalled(t, "JobByID")
}

func TestGet_NotFoundInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	id := uuid.New()

	cache.On("Get", mock.Anything, "job:"+id.String(), mock.Anything).Return(false, time.Time{}, nil)
	src.On("JobByID", mock.Anything, id).
		Return(nil, fmt.Errorf("supabase.JobByID: %w", supabase.ErrNotFound))
	cache.On("Invalidate", mock.Anything, "job:"+id.String()).Return(nil)

	s := makeService(src, cache)
	_, err := s.Get(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, supabase.ErrNotFound)
	cache.AssertExpectations(t)
}

func TestGet_StaleCacheServedWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	src := new(SourceMock)
	cache := new(CacheMock)
	job := makeJob("Go Developer", "Acme", "engineering", time.Hour)

	cache.On("Get", mock.Anything, "job:"+job.ID.String(), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.Job)
			*dest = *job
		}).
		Return(true, time.Now().Add(-time.Hour), nil)
	src.On("JobByID", mock.Anything, job.ID).Return(nil, errors.New("backend down"))

	s := makeService(src, cache)
	got, err := s.Get(ctx, job.ID)

	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
}
