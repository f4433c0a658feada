package storage

import (
	"context"
	"encoding/json"
	"errors"

	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
)

var ErrUnexpectedType = errors.New("unexpected value type in store")

// LoadJSON decodes key into dst. It returns false when the key is absent, unreadable or
// corrupt, leaving dst untouched. Corruption is logged, never returned.
func LoadJSON[T any](ctx context.Context, a Adapter, log logger.ILogger, key string, dst *T) bool {
	raw, ok, err := a.Get(ctx, key)
	if err != nil {
		log.Error("Storage", "Failed to read key", map[string]interface{}{"key": key, "error": err})
		return false
	}
	if !ok {
		return false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn("Storage", apperr.ErrStorageCorrupt.Error()+", using default", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	*dst = v
	return true
}

// GetJSON is LoadJSON with a documented default for absent or corrupt values.
func GetJSON[T any](ctx context.Context, a Adapter, log logger.ILogger, key string, fallback T) T {
	v := fallback
	LoadJSON(ctx, a, log, key, &v)
	return v
}

func SetJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.Set(ctx, key, string(data))
}
