package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

func TestDisabledCacheSwallowsAllOperations(t *testing.T) {
	ctx := context.Background()
	c := Disabled()

	require.NoError(t, c.Set(ctx, "entitlement:viewer@example.com", models.Subscription{Plan: models.PlanLifetime}))

	var rec models.Subscription
	found, fetchedAt, err := c.Get(ctx, "entitlement:viewer@example.com", &rec)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, fetchedAt.IsZero())

	require.NoError(t, c.Invalidate(ctx, "entitlement:viewer@example.com"))
}
