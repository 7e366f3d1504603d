package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mood-reference-agent/internal/model"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1024
)

// SessionHub fans events out to every websocket attached to a session.
type SessionHub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *slog.Logger
}

func NewSessionHub(logger *slog.Logger) *SessionHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHub{clients: map[string]map[*Client]struct{}{}, logger: logger}
}

func (h *SessionHub) Register(sessionID string, conn *websocket.Conn) *Client {
	var c *Client
	c = newClient(conn, func() { h.Unregister(sessionID, c) })
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sessionID]; !ok {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][c] = struct{}{}
	return c
}

func (h *SessionHub) Unregister(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.clients[sessionID]; ok {
		if _, exist := m[c]; exist {
			delete(m, c)
			close(c.send)
		}
		if len(m) == 0 {
			delete(h.clients, sessionID)
		}
	}
}

// ClientCount reports how many sockets are attached to sessionID.
func (h *SessionHub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Push delivers evt to the session's clients. A client whose buffer is full
// is dropped rather than blocking the caller. Sends happen under the read lock
// so Unregister cannot close a channel mid-send.
func (h *SessionHub) Push(sessionID string, evt model.Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("marshal ws event", "type", evt.Type, "err", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[sessionID] {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow ws client", "session_id", sessionID)
		h.Unregister(sessionID, c)
	}
}

type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	onClose func()
}

func newClient(conn *websocket.Conn, onClose func()) *Client {
	return &Client{conn: conn, send: make(chan []byte, 128), onClose: onClose}
}

func (c *Client) ReadPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose()
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
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
