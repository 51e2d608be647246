package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/service"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

type listsMessage struct {
	Type string `json:"type"`
	*api.SubscribeListsResponse
}

type itemsMessage struct {
	Type  string `json:"type"`
	Query string `json:"query"`
	*api.SubscribeItemsResponse
}

// feedClientMessage is sent by clients of the items feed to change the
// search filter.
type feedClientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// ListsFeed streams the caller's lists and delivers notifications addressed
// to them.
func (h *Handler) ListsFeed(c *gin.Context) {
	caller := middleware.GetIdentity(c.Request.Context())
	if caller.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	ws := newWSConn(conn)
	defer ws.close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	lists, err := h.lists.Subscribe(ctx, caller)
	if err != nil {
		ws.writeError("Could not load lists")
		return
	}
	defer lists.Cancel()
	defer h.metrics.SubscriptionStarted("ws_lists")()

	unregister := h.hub.register(caller.ID, ws)
	defer unregister()

	slog.Debug("Lists feed opened", "user_id", caller.ID)

	go func() {
		defer cancel()
		ws.readLoop(maxMessageSize, nil)
	}()
	go ws.keepAlive(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-lists.Snapshots():
			if !ok {
				if err := lists.Err(); err != nil {
					slog.Warn("Lists feed ended", "user_id", caller.ID, "error", err)
					ws.writeError("Lists are unavailable")
				}
				return
			}
			msg := listsMessage{Type: "lists", SubscribeListsResponse: service.ListsSnapshot(snapshot)}
			if err := ws.writeJSON(msg); err != nil {
				return
			}
		}
	}
}

// ItemsFeed streams the items of one list with its summary. Clients change
// the search filter by sending {"type":"search","query":"..."}.
func (h *Handler) ItemsFeed(c *gin.Context) {
	caller := middleware.GetIdentity(c.Request.Context())
	if caller.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	listID := c.Param("id")
	list, err := h.lists.Get(c.Request.Context(), listID)
	switch {
	case errors.Is(err, shopping.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	case err != nil:
		slog.Error("Failed to load list for items feed", "list_id", listID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "List is unavailable"})
		return
	case !list.IsMember(caller.ID):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this list"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	ws := newWSConn(conn)
	defer ws.close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	items, err := h.items.SubscribeAsMember(ctx, caller, listID)
	if err != nil {
		ws.writeError("Could not load items")
		return
	}
	defer items.Cancel()
	defer h.metrics.SubscriptionStarted("ws_items")()

	queries := make(chan string, 1)
	go func() {
		defer cancel()
		ws.readLoop(maxMessageSize, func(_ int, data []byte) bool {
			var msg feedClientMessage
			if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "search" {
				return true
			}
			// Only the latest query matters
			select {
			case <-queries:
			default:
			}
			queries <- msg.Query
			return true
		})
	}()
	go ws.keepAlive(ctx)

	query := strings.TrimSpace(c.Query("q"))
	var latest []*models.Item
	loaded := false

	send := func() error {
		return ws.writeJSON(itemsMessage{
			Type:                   "items",
			Query:                  query,
			SubscribeItemsResponse: service.ItemsSnapshot(latest, query),
		})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case q := <-queries:
			query = strings.TrimSpace(q)
			if !loaded {
				continue
			}
			if err := send(); err != nil {
				return
			}
		case snapshot, ok := <-items.Snapshots():
			if !ok {
				switch err := items.Err(); {
				case err == nil:
				case errors.Is(err, shopping.ErrPermissionDenied):
					ws.writeError("Not a member of this list")
				case errors.Is(err, shopping.ErrNotFound):
					ws.writeError("List not found")
				default:
					slog.Warn("Items feed ended", "list_id", listID, "error", err)
					ws.writeError("Items are unavailable")
				}
				return
			}
			latest, loaded = snapshot, true
			if err := send(); err != nil {
				return
			}
		}
	}
}
