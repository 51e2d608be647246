package handlers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// Hub tracks the live list-feed connections of every user and delivers
// notifications to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*wsConn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*wsConn]struct{})}
}

// register adds a connection for userID. The returned func removes it.
func (h *Hub) register(userID string, c *wsConn) func() {
	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*wsConn]struct{})
	}
	h.conns[userID][c] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if conns, ok := h.conns[userID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.conns, userID)
			}
		}
	}
}

// Connections returns the number of open connections of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

type notificationMessage struct {
	Type     string    `json:"type"`
	ListID   string    `json:"listId"`
	ListName string    `json:"listName"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sentAt"`
}

// Deliver writes n to every connection of userID and returns how many
// connections received it.
func (h *Hub) Deliver(userID string, n models.Notification) int {
	// Copy to avoid holding the lock while writing
	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	msg := notificationMessage{
		Type:     "notification",
		ListID:   n.ListID,
		ListName: n.ListName,
		Title:    n.Title,
		Body:     n.Body,
		SentAt:   n.SentAt,
	}

	delivered := 0
	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			slog.Debug("Failed to deliver notification", "user_id", userID, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
