// Package hub provides a thread-safe websocket broadcast hub for pose
// streams, using the channel-based fan-out pattern. A late subscriber
// immediately receives the most recent pose so it never starts blind.
package hub

import (
	"sync"

	"github.com/motionlab/go-posebridge/internal/log"
)

// Hub maintains the set of active clients and broadcasts pose payloads
// to them.
type Hub struct {
	// Name for logging
	name string

	// Registered clients
	clients map[*Client]bool

	// Inbound payloads to broadcast
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Last broadcast payload, replayed to new clients
	last   []byte
	lastMu sync.RWMutex

	// Mutex for client count (read-only access from outside)
	mu sync.RWMutex
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
// This should be called in a goroutine
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client connected", "hub", h.name, "clients", count)

			// Replay the latest pose so the client has state immediately
			h.lastMu.RLock()
			last := h.last
			h.lastMu.RUnlock()
			if last != nil {
				select {
				case client.send <- last:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client disconnected", "hub", h.name, "clients", count)

		case payload := <-h.broadcast:
			h.lastMu.Lock()
			h.last = payload
			h.lastMu.Unlock()

			// Write lock: dropping a slow client mutates the map while
			// ClientCount may be reading it from another goroutine
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client's buffer is full - they're too slow
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub dropped slow client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a payload for all connected clients. Drops the
// payload rather than blocking when the queue is full.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		log.Warn("hub broadcast queue full, dropping payload", "hub", h.name)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
