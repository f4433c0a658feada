package service

import (
	"sync"
	"testing"
	"time"

	"bidwizer-be/internal/config"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/simulator"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/wizard"

	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	channel string
	msgType string
	data    interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(channel, msgType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{channel: channel, msgType: msgType, data: data})
}

func (n *recordingNotifier) ofType(msgType string) []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMessage
	for _, m := range n.sent {
		if m.msgType == msgType {
			out = append(out, m)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: "memory", KeyPrefix: "test", SessionTTL: time.Minute},
		Wizard:  config.WizardConfig{ClearOnReady: true},
		Gateway: config.GatewayConfig{CheckoutBaseURL: "http://localhost/api/sandbox/checkout", LoginURL: "/login"},
	}
}

func newBrowserStore(t *testing.T) *BrowserStore {
	t.Helper()
	backend := storage.NewMemoryBackend()
	t.Cleanup(func() { _ = backend.Close() })
	return NewBrowserStore(storage.NewLocalAdapter(backend, logger.NewNopLogger()))
}

func newFastSimulator() *simulator.Simulator {
	return simulator.New(time.Millisecond, 2*time.Millisecond, logger.NewNopLogger(), simulator.WithSeed(7))
}

func newRegistration(t *testing.T) (IRegistrationService, *BrowserStore) {
	t.Helper()
	browsers := newBrowserStore(t)
	cfg := testConfig()
	return NewRegistrationService(browsers, wizard.NewSandboxGateway(cfg.Gateway.CheckoutBaseURL), cfg, logger.NewNopLogger()), browsers
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 3*time.Second, 5*time.Millisecond)
}
