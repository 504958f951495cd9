package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/pkg/middleware"
)

// MessageType identifies a reload message.
type MessageType string

const (
	MessageChange MessageType = "change"
	MessageCSS    MessageType = "css"
	MessageReload MessageType = "reload"
	MessageRedraw MessageType = "redraw"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type      MessageType `json:"type"`
	Path      string      `json:"path,omitempty"`
	HTML      string      `json:"html,omitempty"`
	Container string      `json:"container,omitempty"`
	Version   uint64      `json:"version,omitempty"`
}

const writeWait = 5 * time.Second

// reloadClient is one connected browser. Writes are serialized per client.
type reloadClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *reloadClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReloadServer manages WebSocket connections for hot reload.
type ReloadServer struct {
	clients  map[*reloadClient]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *middleware.Metrics
}

// NewReloadServer creates a new reload server.
func NewReloadServer(logger *slog.Logger, metrics *middleware.Metrics) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		clients: make(map[*reloadClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		logger:  logger.With("component", "reload"),
		metrics: metrics,
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the browser goes away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.metrics.RecordWebSocketError("upgrade")
		r.logger.Warn("websocket upgrade failed", "error", errors.New("E401").Wrap(err))
		return
	}

	client := &reloadClient{conn: conn}
	r.mu.Lock()
	r.clients[client] = struct{}{}
	r.mu.Unlock()
	r.metrics.ClientConnected()
	r.logger.Debug("client connected", "remote", req.RemoteAddr)

	// Browsers never send anything; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.metrics.RecordWebSocketError("read")
				r.logger.Debug("client read failed", "error", err)
			}
			break
		}
	}

	r.remove(client)
}

// remove unregisters client and closes its connection once.
func (r *ReloadServer) remove(client *reloadClient) {
	r.mu.Lock()
	_, ok := r.clients[client]
	delete(r.clients, client)
	r.mu.Unlock()
	if ok {
		client.conn.Close()
		r.metrics.ClientDisconnected()
	}
}

// NotifyChange tells browsers that path changed.
func (r *ReloadServer) NotifyChange(path string) {
	r.Broadcast(Message{Type: MessageChange, Path: path})
}

// NotifyCSS tells browsers to swap the stylesheet at path.
func (r *ReloadServer) NotifyCSS(path string) {
	r.Broadcast(Message{Type: MessageCSS, Path: path})
}

// NotifyReload sends a full page reload message to all clients.
func (r *ReloadServer) NotifyReload() {
	r.Broadcast(Message{Type: MessageReload})
}

// NotifyRedraw sends new container HTML to all clients and returns how
// many received it.
func (r *ReloadServer) NotifyRedraw(container, html string, version uint64) int {
	return r.Broadcast(Message{Type: MessageRedraw, Container: container, HTML: html, Version: version})
}

// Broadcast sends msg to all connected clients and returns how many
// received it. Clients that fail to receive are dropped.
func (r *ReloadServer) Broadcast(msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("encode reload message", "error", err)
		return 0
	}

	r.mu.RLock()
	clients := make([]*reloadClient, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	r.metrics.RecordBroadcast(string(msg.Type))
	sent := 0
	for _, client := range clients {
		if err := client.write(data); err != nil {
			r.metrics.RecordWebSocketError("write")
			r.remove(client)
			continue
		}
		sent++
	}
	return sent
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[*reloadClient]struct{})
	r.mu.Unlock()

	for client := range clients {
		client.mu.Lock()
		_ = client.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second),
		)
		client.mu.Unlock()
		client.conn.Close()
		r.metrics.ClientDisconnected()
	}
}
