package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/queue"
)

// Message types pushed to clients.
const (
	TypeNotification = "notification"
	TypeBoard        = "board"
)

// Envelope is the frame written to every client.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type delivery struct {
	userID  string
	message []byte
}

// Hub fans out live updates to the websocket clients of each user.
type Hub struct {
	// Registered clients, grouped by user.
	clients map[string]map[*Client]bool

	// Outbound messages addressed to a user.
	deliver chan delivery

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	done chan struct{}
	log  *zap.Logger
	mu   sync.RWMutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send   chan []byte
	userID string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		deliver:    make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients[d.userID] {
				select {
				case client.send <- d.message:
				default:
					// slow consumer
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Connected reports how many clients a user has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser queues a typed frame for every client of the user.
func (h *Hub) SendToUser(userID, msgType string, payload []byte) {
	frame, err := json.Marshal(Envelope{Type: msgType, Data: payload})
	if err != nil {
		h.log.Error("Failed to encode websocket frame", zap.Error(err))
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, message: frame}:
	case <-h.done:
	}
}

// Consume subscribes the hub to the notification and board subjects of the
// bus and routes each message to its user.
func (h *Hub) Consume(q queue.MessageQueue) error {
	routes := map[string]string{
		queue.SubjectNotifications: TypeNotification,
		queue.SubjectBoardEvents:   TypeBoard,
	}
	for subject, msgType := range routes {
		msgType := msgType
		err := q.Subscribe(subject, func(data []byte) error {
			var addr struct {
				UserID string `json:"user_id"`
			}
			if err := json.Unmarshal(data, &addr); err != nil {
				return err
			}
			if addr.UserID == "" {
				return nil
			}
			h.SendToUser(addr.UserID, msgType, data)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AddClient registers the connection and blocks until it closes, as
// required by the fiber websocket handler.
func (h *Hub) AddClient(conn *websocket.Conn, userID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// Clients only push control frames; the loop keeps ping/pong alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
