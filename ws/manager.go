package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Event is the envelope pushed to feed subscribers.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex // one writer at a time
}

func (cl *client) write(payload []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of active feed websocket connections.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*client // connection id -> client
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*client)}
}

// Register adds a connection for userID and returns its connection id.
func (m *Manager) Register(userID string, conn *websocket.Conn) string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[id] = &client{userID: userID, conn: conn}
	return id
}

// Unregister removes and closes a connection.
func (m *Manager) Unregister(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cl, ok := m.clients[connID]; ok {
		_ = cl.conn.Close()
		delete(m.clients, connID)
	}
}

// Broadcast sends a text message to every connection. Connections that fail
// to accept it are dropped.
func (m *Manager) Broadcast(payload []byte) {
	m.mu.RLock()
	targets := make(map[string]*client, len(m.clients))
	for id, cl := range m.clients {
		targets[id] = cl
	}
	m.mu.RUnlock()

	for id, cl := range targets {
		if err := cl.write(payload); err != nil {
			log.Printf("feed write to %s failed: %v", cl.userID, err)
			m.Unregister(id)
		}
	}
}

// Publish wraps payload in an Event and broadcasts it.
func (m *Manager) Publish(eventType string, payload any) {
	b, err := json.Marshal(Event{Type: eventType, Data: payload, At: time.Now().UTC()})
	if err != nil {
		log.Printf("feed event %s: %v", eventType, err)
		return
	}
	m.Broadcast(b)
}

// IsConnected returns whether userID has at least one open feed.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cl := range m.clients {
		if cl.userID == userID {
			return true
		}
	}
	return false
}

// List returns the ids of users currently connected, one entry per user.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool, len(m.clients))
	ids := make([]string, 0, len(m.clients))
	for _, cl := range m.clients {
		if !seen[cl.userID] {
			seen[cl.userID] = true
			ids = append(ids, cl.userID)
		}
	}
	return ids
}
