package websocket

import (
	"context"
	"encoding/json"

	"bidwizer-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Envelope is the frame every client receives.
type Envelope struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

type Hub struct {
	// Channel id -> clients. A channel is a workspace session id or a browser id.
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	// Closed when Run returns so late register/unregister calls do not block.
	done chan struct{}

	// Redis connection for cross-instance fan-out. Optional.
	rdb *redis.Client

	logger logger.ILogger
}

type delivery struct {
	channel string
	data    []byte
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

// Run owns the client map until ctx is done. All map access happens here.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return

		case c := <-h.register:
			set, ok := h.clients[c.Channel]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.Channel] = set
			}
			set[c] = struct{}{}
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"channel": c.Channel})

		case c := <-h.unregister:
			h.remove(c)

		case d := <-h.deliver:
			for c := range h.clients[d.channel] {
				select {
				case c.Send <- d.data:
				default:
					h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"channel": d.channel})
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) attach(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.Channel]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.Channel)
		h.logger.Info("Hub", "Channel has no clients", map[string]interface{}{"channel": c.Channel})
	}
}

// Send pushes one typed message to every client on channel, here and on other instances.
func (h *Hub) Send(channel, msgType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: msgType, Channel: channel, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"error": err, "type": msgType})
		return
	}

	if h.rdb == nil {
		h.deliverLocal(channel, payload)
		return
	}

	// With Redis every instance, including this one, delivers from the subscription.
	frame, _ := json.Marshal(clusterFrame{TargetChannel: channel, Message: payload})
	if err := h.rdb.Publish(context.Background(), clusterChannel, frame).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
		h.deliverLocal(channel, payload)
	}
}

// SendLocal skips the Redis fan-out. Used for events every instance already observes.
func (h *Hub) SendLocal(channel, msgType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: msgType, Channel: channel, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"error": err, "type": msgType})
		return
	}
	h.deliverLocal(channel, payload)
}

func (h *Hub) deliverLocal(channel string, payload []byte) {
	select {
	case h.deliver <- delivery{channel: channel, data: payload}:
	default:
		h.logger.Warn("Hub", "Delivery queue full, dropping message", map[string]interface{}{"channel": channel})
	}
}

type clusterFrame struct {
	TargetChannel string          `json:"target_channel"`
	Message       json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame clusterFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			h.deliverLocal(frame.TargetChannel, frame.Message)
		}
	}
}
