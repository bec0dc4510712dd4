package websocket

import (
	"encoding/json"
	"sync"

	"github.com/alienstore/storefront-gateway/pkg/logger"
)

// Hub tracks connected clients per user and fans payment events out to all
// of a user's sessions (multi-tab support).
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	push       chan *userMessage

	mu sync.RWMutex
}

type userMessage struct {
	UserID  uint
	Message []byte
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		push:       make(chan *userMessage, 1024),
	}
}

// Run processes registrations and outgoing events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.push:
			h.mu.RLock()
			for _, client := range h.clients[message.UserID] {
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer full - drop the session asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": message.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushToUser delivers an event to every session of the given user. Events
// for users with no open session are dropped; the SPA re-fetches state on
// reconnect.
func (h *Hub) PushToUser(userID uint, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	select {
	case h.push <- &userMessage{UserID: userID, Message: data}:
	default:
		logger.Warn("WebSocket push queue full, dropping event", map[string]interface{}{
			"user_id": userID,
		})
	}
}
