package service

import (
	"bidwizer-be/pkg/storage"
)

// BrowserStore hands out each browser's private view of the shared KV backend.
type BrowserStore struct {
	shared storage.Adapter
}

func NewBrowserStore(shared storage.Adapter) *BrowserStore {
	return &BrowserStore{shared: shared}
}

func (b *BrowserStore) For(browserId string) storage.Adapter {
	return storage.Namespace(b.shared, browserId)
}

// Watch reports every write to browserId's storage, whichever view or instance made it.
func (b *BrowserStore) Watch(browserId string, onChange func(storage.Change)) func() {
	return b.For(browserId).Subscribe(onChange)
}
