package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bidwizer-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
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
	return hub, cancel
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Envelope{}
	}
}

func TestSendReachesOnlyTheChannel(t *testing.T) {
	hub, _ := startHub(t)

	a := &Client{Hub: hub, Channel: "session-a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, Channel: "session-b", Send: make(chan []byte, 4)}
	hub.attach(a)
	hub.attach(b)

	hub.Send("session-a", "chat.delta", map[string]string{"delta": "Hello"})

	env := receive(t, a)
	assert.Equal(t, "chat.delta", env.Type)
	assert.Equal(t, "session-a", env.Channel)
	assert.Empty(t, b.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)

	c := &Client{Hub: hub, Channel: "browser-1", Send: make(chan []byte, 1)}
	hub.attach(c)
	hub.detach(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := startHub(t)

	slow := &Client{Hub: hub, Channel: "browser-1", Send: make(chan []byte, 1)}
	slow.Send <- []byte("unread")
	hub.attach(slow)
	hub.Send("browser-1", "storage.changed", nil)
	// Let the hub attempt delivery while the buffer is still full.
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []byte("unread"), <-slow.Send)
	select {
	case _, ok := <-slow.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("slow client kept")
	}
}
