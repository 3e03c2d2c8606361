package presence

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"hotelops/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Notifier fans a notification out to connected staff.
type Notifier interface {
	Broadcast(ctx context.Context, n domain.Notification) error
}

// client is one staff member's socket.
type client struct {
	user string
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps at most one live socket per staff member and pushes
// notifications to them. A newer connection replaces an older one.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	relay   Notifier
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// UseRelay routes the hub's own presence events through n so that other API
// instances see them too.
func (h *Hub) UseRelay(n Notifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = n
}

// Broadcast delivers n to every local socket except its creator's.
func (h *Hub) Broadcast(_ context.Context, n domain.Notification) error {
	return h.Deliver(n)
}

// Deliver is the local half of Broadcast; relays call it for messages that
// arrive from other instances.
func (h *Hub) Deliver(n domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for user, c := range h.clients {
		if user == n.CreatedBy {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("user", user).Msg("presence client too slow, notification dropped")
		}
	}
	return nil
}

// Online lists connected staff, sorted.
func (h *Hub) Online() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.clients))
	for user := range h.clients {
		out = append(out, user)
	}
	sort.Strings(out)
	return out
}

// Serve owns conn until the peer disconnects.
func (h *Hub) Serve(conn *websocket.Conn, user string) {
	c := &client{
		user: user,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register(c)
	h.log.Info().Str("user", user).Msg("presence connected")

	h.sendTo(c, map[string]string{"type": "connection_status", "status": "connected"})
	h.announce(domain.NotifUserOnline, user)

	go h.writePump(c)
	h.readPump(c)

	if h.unregister(c) {
		h.announce(domain.NotifUserOffline, user)
	}
	h.log.Info().Str("user", user).Msg("presence disconnected")
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for user, c := range h.clients {
		close(c.send)
		delete(h.clients, user)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[c.user]; ok {
		close(old.send)
	}
	h.clients[c.user] = c
}

// unregister reports whether c was still the user's current connection.
func (h *Hub) unregister(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.user]; ok && existing == c {
		delete(h.clients, c.user)
		close(c.send)
		return true
	}
	return false
}

func (h *Hub) announce(kind domain.NotificationType, user string) {
	n := domain.Notification{
		Type:      kind,
		Data:      map[string]any{"user": user},
		CreatedBy: user,
		CreatedAt: time.Now().UTC(),
	}

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	var err error
	if relay != nil {
		err = relay.Broadcast(context.Background(), n)
	} else {
		err = h.Deliver(n)
	}
	if err != nil {
		h.log.Warn().Err(err).Str("user", user).Str("type", string(kind)).Msg("presence announcement failed")
	}
}

func (h *Hub) sendTo(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.user] != c {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) readPump(c *client) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("user", c.user).Msg("presence read failed")
			}
			return
		}

		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		if event.Type == "ping" {
			h.sendTo(c, map[string]string{"type": "pong", "status": "connected"})
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
