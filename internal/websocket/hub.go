package websocket

import (
	"log/slog"
	"sync"
	"time"
)

// Hub maintains the set of active clients and delivers notifications to them.
type Hub struct {
	// Registered clients by user ID
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

// IsUserOnline checks if a user has an active connection with recent activity.
func (h *Hub) IsUserOnline(userID string) bool {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return false
	}
	return time.Since(client.LastActivity) < onlineWindow
}

// GetOnlineUsers returns a map of user IDs that are currently online.
func (h *Hub) GetOnlineUsers() map[string]bool {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	online := make(map[string]bool)
	now := time.Now()
	for userID, client := range h.clients {
		if now.Sub(client.LastActivity) < onlineWindow {
			online[userID] = true
		}
	}
	return online
}

// SendToUser delivers a message to one user if connected. Returns false when
// the user is offline or the send buffer is full.
func (h *Hub) SendToUser(userID string, msg Message) bool {
	data, err := EncodeMessage(msg)
	if err != nil {
		return false
	}

	h.clientsMutex.RLock()
	client, ok := h.clients[userID]
	h.clientsMutex.RUnlock()
	if !ok {
		return false
	}

	select {
	case client.Send <- data:
		return true
	default:
		// Send buffer full, drop the notification
		return false
	}
}

// onlineWindow is how recent the last activity must be to count as online.
const onlineWindow = 10 * time.Second

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clientsMutex.Lock()
			if old, ok := h.clients[client.UserID]; ok && old != client {
				close(old.Send)
			}
			h.clients[client.UserID] = client
			client.LastActivity = time.Now()
			total := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug("ws client registered", "user_id", client.UserID, "total", total)

			h.broadcastPresence(client.UserID, "user-online")

		case client := <-h.Unregister:
			h.clientsMutex.Lock()
			wasRegistered := false
			if current, ok := h.clients[client.UserID]; ok && current == client {
				wasRegistered = true
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			remaining := len(h.clients)
			h.clientsMutex.Unlock()

			if wasRegistered {
				h.logger.Debug("ws client unregistered", "user_id", client.UserID, "remaining", remaining)
				h.broadcastPresence(client.UserID, "user-offline")
			}
		}
	}
}

func (h *Hub) broadcastPresence(userID, msgType string) {
	data, err := EncodeMessage(Message{Type: msgType, From: userID})
	if err != nil {
		return
	}

	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	for id, other := range h.clients {
		if id == userID {
			continue
		}
		select {
		case other.Send <- data:
		default:
			// Send buffer full, skip
		}
	}
}
