package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"bidwizer-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_URL=redis://localhost:6379 go test ./pkg/storage
func TestRedisAdapterIntegration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	prefix := "bidwizer_test_" + uuid.NewString()
	log := logger.NewNopLogger()
	writer := NewRedisAdapter(rdb, prefix, log)
	reader := NewRedisAdapter(rdb, prefix, log)

	rec := &changeRecorder{}
	unsubscribe := reader.Subscribe(rec.record)
	defer unsubscribe()
	time.Sleep(100 * time.Millisecond) // let SUBSCRIBE land before publishing

	require.NoError(t, SetJSON(ctx, writer, KeyFollowedPublishers, []string{"1", "2"}))
	assert.Equal(t, []string{"1", "2"}, GetJSON(ctx, reader, log, KeyFollowedPublishers, []string{}))
	assert.Eventually(t, func() bool { return rec.has(KeyFollowedPublishers, false) }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, writer.Remove(ctx, KeyFollowedPublishers))
	_, ok, err := reader.Get(ctx, KeyFollowedPublishers)
	require.NoError(t, err)
	assert.False(t, ok)
}
