package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

// SubscriptionByEmail возвращает запись подписки по почте владельца
// либо ErrNotFound, если записи нет.
func (c *Client) SubscriptionByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	const op = "supabase.SubscriptionByEmail"

	var rec models.Subscription
	err := c.From("subscriptions").Select("*").Eq("email", email).Single().Execute(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rec, nil
}

// Jobs возвращает полный список вакансий, новые первыми.
// Фильтрация и пагинация выполняются в памяти на стороне приложения.
func (c *Client) Jobs(ctx context.Context) ([]*models.Job, error) {
	const op = "supabase.Jobs"

	var jobs []*models.Job
	err := c.From("jobs").Select("*").Order("created_at", false).Execute(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jobs, nil
}

// JobByID возвращает вакансию по идентификатору либо ErrNotFound.
func (c *Client) JobByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	const op = "supabase.JobByID"

	var job models.Job
	err := c.From("jobs").Select("*").Eq("id", id).Single().Execute(ctx, &job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &job, nil
}
