package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 << 10
)

func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || origin == "" {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}
}

// wsAuth authenticates WebSocket upgrades. Browsers cannot set headers on
// WebSocket requests, so the token may also come in the "token" query parameter.
func wsAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			var err error
			token, err = middleware.BearerToken(c.GetHeader("Authorization"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Request = c.Request.WithContext(middleware.WithClaims(c.Request.Context(), claims, token))
		c.Next()
	}
}

// wsConn serializes writes to a WebSocket connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writeError(message string) {
	if err := c.writeJSON(errorMessage{Type: "error", Message: message}); err != nil {
		slog.Debug("Failed to send error message", "error", err)
	}
}

// close sends a close frame and closes the connection.
func (c *wsConn) close() {
	c.mu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.mu.Unlock()
	c.conn.Close()
}

// keepAlive pings the client until ctx ends.
func (c *wsConn) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}

// readLoop reads client messages until the connection fails or handle
// returns false. A nil handle discards messages.
func (c *wsConn) readLoop(limit int64, handle func(messageType int, data []byte) bool) {
	c.conn.SetReadLimit(limit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("WebSocket closed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if handle != nil && !handle(messageType, data) {
			return
		}
	}
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
