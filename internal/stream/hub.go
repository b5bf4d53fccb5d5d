package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/viewstate"
)

// Controller is the subset of the view-state controller the hub needs.
type Controller interface {
	Subscribe() (string, <-chan viewstate.State)
	Unsubscribe(id string)
	SetTag(tag model.Tag) error
}

// Hub upgrades HTTP requests to WebSocket state streams.
type Hub struct {
	cfg      Config
	ctrl     Controller
	logger   *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
	wg      sync.WaitGroup
}

// NewHub creates a Hub. A nil metrics is allowed.
func NewHub(cfg Config, ctrl Controller, m *metrics.Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 2 * cfg.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = def.ReadLimit
	}
	return &Hub{
		cfg:     cfg,
		ctrl:    ctrl,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and blocks until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		out:  make(chan Message, 8),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.wg.Add(1)
	h.mu.Unlock()

	h.metrics.StreamConnected()
	h.logger.Debug("stream client connected", "client", c.id, "remote", r.RemoteAddr)

	c.run()

	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	h.wg.Done()

	h.metrics.StreamDisconnected()
	h.logger.Debug("stream client disconnected", "client", c.id)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and waits for their loops to exit.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// client is one WebSocket connection. Only writeLoop writes to conn.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	out       chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *client) run() {
	subID, states := c.hub.ctrl.Subscribe()
	defer c.hub.ctrl.Unsubscribe(subID)

	go c.readLoop()
	c.writeLoop(states)

	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.conn.Close()
}

// writeLoop forwards states and replies, and pings on an interval.
func (c *client) writeLoop(states <-chan viewstate.State) {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			sum := s.Summary()
			if err := c.write(Message{Type: TypeState, State: &sum}); err != nil {
				c.hub.logger.Debug("stream write failed", "client", c.id, "err", err)
				return
			}
			c.hub.metrics.StreamSent()
		case msg := <-c.out:
			if err := c.write(msg); err != nil {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.hub.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.hub.logger.Debug("failed to send ping", "client", c.id, "err", err)
				return
			}
		}
	}
}

func (c *client) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop handles client commands until the connection fails.
func (c *client) readLoop() {
	defer c.close()

	c.conn.SetReadLimit(c.hub.cfg.ReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.logger.Debug("stream read failed", "client", c.id, "err", err)
			}
			return
		}

		if reply, ok := c.handle(data); ok {
			select {
			case c.out <- reply:
			case <-c.done:
				return
			default:
				c.hub.logger.Warn("reply buffer full, dropping message", "client", c.id)
			}
		}
	}
}

// handle applies one command and returns an error reply if it failed.
func (c *client) handle(data []byte) (Message, bool) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Message{Type: TypeError, Error: "invalid message"}, true
	}

	switch cmd.Type {
	case TypeSetTag:
		tag, err := model.ParseTag(cmd.Tag)
		if err != nil {
			return Message{Type: TypeError, Error: err.Error()}, true
		}
		if err := c.hub.ctrl.SetTag(tag); err != nil {
			return Message{Type: TypeError, Error: err.Error()}, true
		}
		return Message{}, false
	default:
		return Message{Type: TypeError, Error: "unknown message type " + cmd.Type}, true
	}
}
