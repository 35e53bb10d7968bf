package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/remote-jobboard/internal/guard"
	"github.com/magabrotheeeer/remote-jobboard/internal/models"
)

func TestDecide(t *testing.T) {
	viewer := &models.Viewer{UID: "uid-1", Email: "viewer@example.com"}
	paid := &models.Subscription{Email: "viewer@example.com", Plan: models.PlanLifetime, Status: models.StatusActive}

	tests := []struct {
		name string
		snap models.Snapshot
		req  guard.Requirement
		want guard.Decision
	}{
		{
			name: "аутентификация не разрешена — ждать, а не слать на логин",
			snap: models.Snapshot{AuthResolved: false},
			req:  guard.Requirement{},
			want: guard.Decision{Kind: guard.Loading},
		},
		{
			name: "аноним после разрешения — редирект на логин",
			snap: models.Snapshot{AuthResolved: true, SubscriptionResolved: true},
			req:  guard.Requirement{},
			want: guard.Decision{Kind: guard.Redirect, Target: guard.TargetLogin},
		},
		{
			name: "зритель есть, подписка не нужна — рендер",
			snap: models.Snapshot{Viewer: viewer, AuthResolved: true},
			req:  guard.Requirement{},
			want: guard.Decision{Kind: guard.Render},
		},
		{
			name: "подписка нужна, но ещё не разрешена — ждать, а не пейвол",
			snap: models.Snapshot{Viewer: viewer, AuthResolved: true, SubscriptionResolved: false},
			req:  guard.Requirement{NeedsEntitlement: true},
			want: guard.Decision{Kind: guard.Loading},
		},
		{
			name: "подписка разрешена и отсутствует — редирект на пейвол",
			snap: models.Snapshot{Viewer: viewer, AuthResolved: true, SubscriptionResolved: true},
			req:  guard.Requirement{NeedsEntitlement: true},
			want: guard.Decision{Kind: guard.Redirect, Target: guard.TargetUpgrade},
		},
		{
			name: "действующая подписка — рендер",
			snap: models.Snapshot{Viewer: viewer, Entitlement: paid, AuthResolved: true, SubscriptionResolved: true},
			req:  guard.Requirement{NeedsEntitlement: true},
			want: guard.Decision{Kind: guard.Render},
		},
		{
			name: "anonymous viewer on entitled route goes to login, not upgrade",
			snap: models.Snapshot{AuthResolved: true, SubscriptionResolved: true},
			req:  guard.Requirement{NeedsEntitlement: true},
			want: guard.Decision{Kind: guard.Redirect, Target: guard.TargetLogin},
		},
		{
			name: "auth unresolved wins even with entitlement requirement",
			snap: models.Snapshot{Viewer: viewer, Entitlement: paid, AuthResolved: false, SubscriptionResolved: true},
			req:  guard.Requirement{NeedsEntitlement: true},
			want: guard.Decision{Kind: guard.Loading},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.snap, tt.req))
		})
	}
}
