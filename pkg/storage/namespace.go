package storage

import (
	"context"
	"strings"
)

type namespaced struct {
	inner  Adapter
	prefix string
}

// Namespace scopes an adapter to one browser on a shared store. Changes outside the
// namespace are filtered out and keys are reported without the prefix.
func Namespace(inner Adapter, name string) Adapter {
	return &namespaced{inner: inner, prefix: name + "/"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

func (n *namespaced) Subscribe(onChange func(Change)) func() {
	return n.inner.Subscribe(func(c Change) {
		if !strings.HasPrefix(c.Key, n.prefix) {
			return
		}
		c.Key = strings.TrimPrefix(c.Key, n.prefix)
		onChange(c)
	})
}
