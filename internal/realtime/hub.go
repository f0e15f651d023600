package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const clientSendBuffer = 64

// Envelope is the wire format pushed to websocket clients
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub tracks connected clients by channel and fans published events out to
// them. It is injected wherever realtime pushes are needed; there is no
// package-level instance.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Client]struct{}
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]struct{}),
		logger:   logger,
	}
}

// UserChannel names the per-user channel booking events are addressed to
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// Register adds a client to a channel and returns it
func (h *Hub) Register(channel string) *Client {
	client := &Client{
		channel: channel,
		send:    make(chan []byte, clientSendBuffer),
	}

	h.mu.Lock()
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Client]struct{})
	}
	h.channels[channel][client] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Realtime client registered", zap.String("channel", channel))
	return client
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	clients, ok := h.channels[client.channel]
	if ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.channels, client.channel)
		}
	}
	h.mu.Unlock()
}

// Publish sends an event to every client on the channel. A slow client's
// full buffer drops the message rather than blocking the publisher.
func (h *Hub) Publish(channel, event string, data json.RawMessage) {
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal realtime envelope", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.channels[channel] {
		select {
		case client.send <- msg:
		default:
			h.logger.Warn("Dropping realtime message, client buffer full",
				zap.String("channel", channel),
				zap.String("event", event),
			)
		}
	}
}

// ClientCount reports connected clients on a channel
func (h *Hub) ClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Client is one websocket subscriber
type Client struct {
	channel string
	send    chan []byte
}

// Send exposes the outbound message stream for the connection write loop
func (c *Client) Send() <-chan []byte {
	return c.send
}
