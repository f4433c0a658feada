package service

import (
	"context"
	"testing"

	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowLimitFollowsAccountPlan(t *testing.T) {
	tests := []struct {
		name  string
		plan  string
		limit int
	}{
		{name: "no account", limit: 3},
		{name: "standard", plan: "STANDARD", limit: 5},
		{name: "premium", plan: "PREMIUM", limit: 25},
		{name: "corrupt", plan: "{{", limit: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			browsers := newBrowserStore(t)
			browser := uuid.NewString()
			if tt.plan != "" {
				require.NoError(t, browsers.For(browser).Set(ctx, storage.KeyAccountPlan, tt.plan))
			}
			svc := NewFollowService(browsers, logger.NewNopLogger())
			assert.Equal(t, tt.limit, svc.Status(ctx, browser).Limit)
		})
	}
}

func TestToggleFollowAtLimit(t *testing.T) {
	ctx := context.Background()
	browsers := newBrowserStore(t)
	browser := uuid.NewString()
	svc := NewFollowService(browsers, logger.NewNopLogger())

	for _, id := range []string{"1", "2", "3"} {
		res, err := svc.Toggle(ctx, browser, id)
		require.NoError(t, err)
		assert.True(t, res.Following)
	}

	_, err := svc.Toggle(ctx, browser, "4")
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)
	assert.Equal(t, []string{"1", "2", "3"}, svc.Status(ctx, browser).Followed)

	res, err := svc.Toggle(ctx, browser, "2")
	require.NoError(t, err)
	assert.False(t, res.Following)
	assert.Equal(t, []string{"1", "3"}, res.Followed)

	_, err = svc.Toggle(ctx, browser, "999")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Empty(t, svc.Status(ctx, uuid.NewString()).Followed)
}

func TestBrowserStoreWatchSeesOnlyOwnBrowser(t *testing.T) {
	ctx := context.Background()
	browsers := newBrowserStore(t)
	a, b := uuid.NewString(), uuid.NewString()

	changes := make(chan storage.Change, 8)
	stop := browsers.Watch(a, func(c storage.Change) { changes <- c })
	defer stop()

	svc := NewFollowService(browsers, logger.NewNopLogger())
	_, err := svc.Toggle(ctx, b, "1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, a, "2")
	require.NoError(t, err)

	waitFor(t, func() bool { return len(changes) > 0 })
	c := <-changes
	assert.Equal(t, storage.KeyFollowedPublishers, c.Key)
	assert.Empty(t, changes)
}
