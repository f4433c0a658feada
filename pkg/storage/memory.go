package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bidwizer-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
)

const changeTopic = "storage.changed"

// MemoryBackend is one in-process "browser": a key/value area plus the event bus that
// lets every view of it hear about writes.
type MemoryBackend struct {
	items *cache.Cache
	bus   *gochannel.GoChannel
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items: cache.New(cache.NoExpiration, 0),
		bus:   gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

func (b *MemoryBackend) Close() error {
	return b.bus.Close()
}

// LocalAdapter is one view (tab) over a MemoryBackend.
type LocalAdapter struct {
	backend *MemoryBackend
	logger  logger.ILogger
}

func NewLocalAdapter(backend *MemoryBackend, log logger.ILogger) *LocalAdapter {
	return &LocalAdapter{backend: backend, logger: log}
}

func (a *LocalAdapter) Get(_ context.Context, key string) (string, bool, error) {
	v, found := a.backend.items.Get(key)
	if !found {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("key %s holds %T: %w", key, v, ErrUnexpectedType)
	}
	return s, true, nil
}

func (a *LocalAdapter) Set(_ context.Context, key, value string) error {
	a.backend.items.Set(key, value, cache.NoExpiration)
	return a.notify(Change{Key: key})
}

func (a *LocalAdapter) Remove(_ context.Context, key string) error {
	a.backend.items.Delete(key)
	return a.notify(Change{Key: key, Removed: true})
}

func (a *LocalAdapter) notify(change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := a.backend.bus.Publish(changeTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("failed to broadcast change of %s: %w", change.Key, err)
	}
	return nil
}

func (a *LocalAdapter) Subscribe(onChange func(Change)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	messages, err := a.backend.bus.Subscribe(ctx, changeTopic)
	if err != nil {
		cancel()
		a.logger.Error("Storage", "Failed to subscribe to storage changes", map[string]interface{}{"error": err})
		return func() {}
	}

	go func() {
		for msg := range messages {
			var change Change
			err := json.Unmarshal(msg.Payload, &change)
			msg.Ack()
			if err != nil {
				a.logger.Warn("Storage", "Dropping malformed change event", map[string]interface{}{"error": err.Error()})
				continue
			}
			onChange(change)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}
