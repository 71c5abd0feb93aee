// Package realtime is the change-notification fan-out: every connected
// device subscribes to the one shared session and receives each mutation
// (vote counts, session cursor, reveals, resets) as it happens. Redis
// pub/sub bridges instances so any server's write reaches every client.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait (seconds) drive the heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Event names broadcast to clients.
const (
	EventSessionState     = "session_state"
	EventVoteCast         = "vote_cast"
	EventResultRevealed   = "result_revealed"
	EventResultsReset     = "results_reset"
	EventSessionCompleted = "session_completed"
	EventSessionReset     = "session_reset"
	EventAudienceCount    = "audience_count"
	EventParticipantJoin  = "participant_joined"
)

// PresenceHandler is called when a client joins or leaves the session.
type PresenceHandler func(c *Client)

// Publisher publishes events for cross-instance delivery.
type Publisher interface {
	PublishEvent(event string, payload []byte) error
}

// Subscriber subscribes to the session channel and invokes handler for
// incoming events.
type Subscriber interface {
	Subscribe(handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains the set of connected clients for the single shared session
// and broadcasts messages to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	cancel  func() // redis subscription, held while any client is connected

	logger  *zap.Logger
	pub     Publisher
	sub     Subscriber
	onJoin  PresenceHandler
	onLeave PresenceHandler
}

// NewHub creates a hub. pub/sub may be nil for single-instance runs.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
		pub:     pub,
		sub:     sub,
	}
}

// SetPresenceHandlers sets callbacks invoked on client join and leave.
func (h *Hub) SetPresenceHandlers(onJoin, onLeave PresenceHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onJoin = onJoin
	h.onLeave = onLeave
}

// Register adds a client. The Redis subscription starts with the first
// client and is torn down when the last one leaves.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if len(h.clients) == 0 && h.sub != nil {
		cancel, err := h.sub.Subscribe(func(event string, payload []byte) {
			h.Broadcast(event, json.RawMessage(payload))
		})
		if err == nil {
			h.cancel = cancel
		} else {
			h.logger.Warn("redis subscribe failed, local-only broadcast", zap.Error(err))
		}
	}
	h.clients[c.ID] = c
	count := len(h.clients)
	onJoin := h.onJoin
	h.mu.Unlock()

	if onJoin != nil {
		onJoin(c)
	}
	// The count is per-instance; it stays a local broadcast so instances
	// never overwrite each other's numbers.
	h.Broadcast(EventAudienceCount, map[string]int{"count": count})
	h.logger.Debug("client connected", zap.String("client_id", c.ID), zap.String("participant_id", c.ParticipantID.String()))
}

// Unregister removes a client, cancelling the Redis subscription when the
// room empties.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	count := len(h.clients)
	if count == 0 && h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	onLeave := h.onLeave
	h.mu.Unlock()

	if onLeave != nil {
		onLeave(c)
	}
	if count > 0 {
		h.Broadcast(EventAudienceCount, map[string]int{"count": count})
	}
	h.logger.Debug("client disconnected", zap.String("client_id", c.ID))
}

// Broadcast sends a message to all local clients.
func (h *Hub) Broadcast(event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastAndPublish delivers an event to every client on every instance.
// With a publisher configured the event always goes to Redis, even when this
// instance has no sockets of its own — other instances' subscriptions carry
// it to their clients. While locally subscribed, local delivery arrives
// through the subscription callback, so clients never see the event twice;
// otherwise (no clients yet, or the subscribe failed) the event is also
// broadcast directly.
func (h *Hub) BroadcastAndPublish(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	subscribed := h.cancel != nil
	h.mu.RUnlock()
	if h.pub != nil {
		if err := h.pub.PublishEvent(event, data); err == nil {
			if subscribed {
				return
			}
		} else {
			h.logger.Warn("redis publish failed, local-only broadcast", zap.Error(err))
		}
	}
	h.Broadcast(event, json.RawMessage(data))
}

// AudienceCount returns the number of connected clients on this instance.
func (h *Hub) AudienceCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
