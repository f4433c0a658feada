package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"
	internalWS "bidwizer-be/internal/websocket"
	"bidwizer-be/pkg/simulator"
	"bidwizer-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*StreamHandler, *internalWS.Hub, *service.BrowserStore) {
	t.Helper()
	log := logger.NewNopLogger()
	backend := storage.NewMemoryBackend()
	t.Cleanup(func() { _ = backend.Close() })
	browsers := service.NewBrowserStore(storage.NewLocalAdapter(backend, log))

	hub := internalWS.NewHub(nil, log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	workspaces := service.NewWorkspaceService(simulator.NewDefault(log), hub, time.Minute, log)
	t.Cleanup(workspaces.Shutdown)
	return NewStreamHandler(hub, workspaces, browsers, service.NewFollowService(browsers, log), log), hub, browsers
}

func nextEnvelope(t *testing.T, c *internalWS.Client) internalWS.Envelope {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env internalWS.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no notice delivered")
		return internalWS.Envelope{}
	}
}

func TestBrowserWatchIsSharedAcrossTabs(t *testing.T) {
	h, hub, browsers := newHandler(t)
	browserId := uuid.NewString()

	tab := &internalWS.Client{Hub: hub, Channel: browserId, Send: make(chan []byte, 8)}
	internalWS.Attach(hub, tab)

	h.watch(browserId)
	h.watch(browserId)
	require.NoError(t, browsers.For(browserId).Set(context.Background(), storage.KeyBidderPlan, "STANDARD"))

	assert.Equal(t, EventStorageChanged, nextEnvelope(t, tab).Type)
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, tab.Send, "one notice per change")

	h.unwatch(browserId)
	assert.Len(t, h.watchers, 1)
	h.unwatch(browserId)
	assert.Empty(t, h.watchers)
}

func TestFollowChangesCarryTheResolvedSet(t *testing.T) {
	h, hub, browsers := newHandler(t)
	browserId := uuid.NewString()

	tab := &internalWS.Client{Hub: hub, Channel: browserId, Send: make(chan []byte, 8)}
	internalWS.Attach(hub, tab)

	h.watch(browserId)
	t.Cleanup(func() { h.unwatch(browserId) })
	require.NoError(t, browsers.For(browserId).Set(context.Background(), storage.KeyFollowedPublishers, `["1"]`))

	seen := map[string]internalWS.Envelope{}
	for range 2 {
		env := nextEnvelope(t, tab)
		seen[env.Type] = env
	}
	require.Contains(t, seen, EventStorageChanged)
	require.Contains(t, seen, EventFollowsChanged)

	raw, err := json.Marshal(seen[EventFollowsChanged].Data)
	require.NoError(t, err)
	var status dto.FollowStatusResponse
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.Equal(t, []string{"1"}, status.Followed)
	assert.Equal(t, 3, status.Limit)
}

func TestUpgradeRoutesRejectPlainRequests(t *testing.T) {
	h, _, _ := newHandler(t)
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h.RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ws/workspaces/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
