package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub maintains the set of active terminals and broadcasts till events
// (sales, undos, invoice edits, restocks) to every connected screen.
type Hub struct {
	// Registered clients map: TerminalID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound event fan-out
	broadcast chan []byte

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// Event is the envelope pushed to terminals
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sentAt"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.TerminalID != "" {
				// If the terminal connects again, close the old connection
				if old, ok := h.clients[client.TerminalID]; ok {
					close(old.send)
					delete(h.clients, client.TerminalID)
				}
				h.clients[client.TerminalID] = client
				log.Printf("🖥️ Terminal connected: %s", client.TerminalID)
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if client.TerminalID != "" {
				if _, ok := h.clients[client.TerminalID]; ok {
					delete(h.clients, client.TerminalID)
					close(client.send)
					log.Printf("📴 Terminal disconnected: %s", client.TerminalID)
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead, drop it
					log.Printf("⚠️ Dropping slow terminal: %s", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Notify broadcasts a named event to every connected terminal. It satisfies
// the sale service's notifier and never blocks the caller.
func (h *Hub) Notify(event string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: event, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		log.Printf("Error marshaling event %q: %v", event, err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("⚠️ Event queue full, dropping %q", event)
	}
}

// SendToTerminal sends a message to a specific terminal
func (h *Hub) SendToTerminal(terminalID string, message interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[terminalID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}

	select {
	case client.send <- jsonMsg:
		return true
	default:
		// Buffer full or client dead
		return false
	}
}

// ClientCount reports how many terminals are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
