package handler

import (
	"sync"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"
	internalWS "bidwizer-be/internal/websocket"
	"bidwizer-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// EventStorageChanged is pushed on a browser channel after any write to its storage.
	EventStorageChanged = "storage.changed"
	// EventFollowsChanged carries the resolved follow set so tabs resync without a fetch.
	EventFollowsChanged = "follows.changed"
)

// StreamHandler upgrades clients onto hub channels: one per workspace for chat fragments
// and one per browser for storage change notices.
type StreamHandler struct {
	hub        *internalWS.Hub
	workspaces service.IWorkspaceService
	browsers   *service.BrowserStore
	follows    service.IFollowService
	logger     logger.ILogger

	mu       sync.Mutex
	watchers map[string]*browserWatch
}

type browserWatch struct {
	conns int
	stop  func()
}

func NewStreamHandler(hub *internalWS.Hub, workspaces service.IWorkspaceService, browsers *service.BrowserStore, follows service.IFollowService, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		hub:        hub,
		workspaces: workspaces,
		browsers:   browsers,
		follows:    follows,
		logger:     log,
		watchers:   make(map[string]*browserWatch),
	}
}

func (h *StreamHandler) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/ws")
	ws.Use(requireUpgrade)
	ws.Get("/workspaces/:id", h.checkWorkspace, websocket.New(h.serveWorkspace))
	ws.Get("/browser", h.checkBrowser, websocket.New(h.serveBrowser))
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *StreamHandler) checkWorkspace(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !h.workspaces.Exists(id) {
		return fiber.NewError(fiber.StatusNotFound, "workspace not found")
	}
	c.Locals("channel", id.String())
	return c.Next()
}

func (h *StreamHandler) checkBrowser(c *fiber.Ctx) error {
	browserId, err := serverutils.BrowserID(c)
	if err != nil {
		return err
	}
	c.Locals("channel", browserId)
	return c.Next()
}

func (h *StreamHandler) serveWorkspace(conn *websocket.Conn) {
	channel := conn.Locals("channel").(string)
	h.logger.Info("StreamHandler", "Workspace stream attached", map[string]interface{}{"channel": channel})
	internalWS.ServeWs(h.hub, conn, channel)
}

// serveBrowser relays storage changes for as long as the connection lives.
func (h *StreamHandler) serveBrowser(conn *websocket.Conn) {
	browserId := conn.Locals("channel").(string)
	h.watch(browserId)
	defer h.unwatch(browserId)

	h.logger.Info("StreamHandler", "Browser stream attached", map[string]interface{}{"channel": browserId})
	internalWS.ServeWs(h.hub, conn, browserId)
}

// watch keeps one storage subscription per browser however many tabs are attached.
// Each instance observes every change itself, so delivery stays local.
func (h *StreamHandler) watch(browserId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if w, ok := h.watchers[browserId]; ok {
		w.conns++
		return
	}
	stopStorage := h.browsers.Watch(browserId, func(c storage.Change) {
		h.hub.SendLocal(browserId, EventStorageChanged, c)
	})
	stopFollows := h.follows.Watch(browserId, func(status *dto.FollowStatusResponse) {
		h.hub.SendLocal(browserId, EventFollowsChanged, status)
	})
	h.watchers[browserId] = &browserWatch{conns: 1, stop: func() {
		stopStorage()
		stopFollows()
	}}
}

func (h *StreamHandler) unwatch(browserId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.watchers[browserId]
	if !ok {
		return
	}
	w.conns--
	if w.conns == 0 {
		w.stop()
		delete(h.watchers, browserId)
	}
}
