package preview

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/render"
)

// MessageType discriminates messages sent to clients.
type MessageType string

const (
	MessageHello    MessageType = "hello"
	MessageMutation MessageType = "mutation"
)

// Message is sent to clients as JSON.
type Message struct {
	Type MessageType `json:"type"`

	// ID is the client id, set on hello.
	ID string `json:"id,omitempty"`

	Record *Record `json:"record,omitempty"`
}

// Record is the wire form of a dom.Mutation.
type Record struct {
	Kind     string `json:"kind"`
	Target   string `json:"target"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
	OldValue string `json:"oldValue,omitempty"`
	Cleared  bool   `json:"cleared,omitempty"`

	// Added is the markup of an inserted node at insertion time.
	Added string `json:"added,omitempty"`

	// Removed is the node name of a removed node.
	Removed string `json:"removed,omitempty"`
}

// NewRecord converts a mutation. It reads the document and must run on
// the loop goroutine.
func NewRecord(m dom.Mutation) Record {
	rec := Record{
		Kind:     m.Kind.String(),
		Target:   NodePath(m.Target),
		Name:     m.Name,
		Value:    m.Value,
		OldValue: m.OldValue,
		Cleared:  m.Cleared,
	}
	if m.Added != nil {
		rec.Added, _ = render.NewRenderer(render.RendererConfig{}).RenderToString(render.Snapshot(m.Added))
	}
	if m.Removed != nil {
		rec.Removed = m.Removed.NodeName()
	}
	return rec
}

// NodePath addresses n from the document root, for example
// "/html[0]/body[1]/x-card[0]/#shadow-root/p[1]".
func NodePath(n *dom.Node) string {
	var parts []string
	for p := n; p != nil; {
		switch {
		case p.IsShadowRoot():
			parts = append(parts, "#shadow-root")
			p = p.Host()
		case p.Parent() != nil:
			parts = append(parts, p.NodeName()+"["+strconv.Itoa(indexOf(p))+"]")
			p = p.Parent()
		default:
			p = nil
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

func indexOf(n *dom.Node) int {
	for i, c := range n.Parent().ChildNodes() {
		if c == n {
			return i
		}
	}
	return -1
}

// client is one websocket connection. Writes go through send so that a
// slow client never blocks the loop.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub manages websocket clients and broadcasts mutation records.
type Hub struct {
	clients  map[string]*client
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// sendBuffer is the number of messages queued per client before records
// are dropped for it.
const sendBuffer = 256

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local preview only
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and streams messages until the
// client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("preview: upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	hello, _ := json.Marshal(Message{Type: MessageHello, ID: c.id})
	c.send <- hello

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("preview: client connected", "client", c.id)

	go h.writePump(c)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.mu.Unlock()
	c.conn.Close()
	h.logger.Debug("preview: client disconnected", "client", c.id)
}

// Publish converts m and queues it for every client.
func (h *Hub) Publish(m dom.Mutation) {
	if h.ClientCount() == 0 {
		return
	}
	rec := NewRecord(m)
	h.broadcast(Message{Type: MessageMutation, Record: &rec})
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("preview: encode message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("preview: client too slow, dropping record", "client", c.id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
