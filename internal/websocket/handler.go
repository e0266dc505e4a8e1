package websocket

import (
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/models"
	"go.uber.org/zap"
)

// TokenValidator validates a JWT and returns the authenticated user
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.User, error)
}

// Handler handles WebSocket HTTP upgrade requests
type Handler struct {
	hub       *Hub
	validator TokenValidator
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, validator TokenValidator) *Handler {
	return &Handler{
		hub:       hub,
		validator: validator,
	}
}

// HandleWebSocket handles WebSocket upgrade requests.
// Authentication is done via JWT token in query param: ?token=...
// or via Authorization header: Bearer <token>
func (h *Handler) HandleWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
			tokenString = auth[7:]
		}
	}
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no authentication token provided"})
		return
	}

	user, err := h.validator.ValidateToken(tokenString)
	if err != nil {
		logger.Log.Warn("WebSocket auth failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_failed"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origins are enforced by the CORS layer
		CompressionMode:    websocket.CompressionContextTakeover,
	})
	if err != nil {
		logger.Log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, user.ID, user.DisplayName)
	client.RemoteAddr = c.ClientIP()

	h.hub.Register(client)

	client.Send(NewMessage(MessageTypeSystem, SystemPayload{
		Event: "connected",
		Data: map[string]interface{}{
			"user_id":     user.ID,
			"server_time": time.Now().UTC().UnixMilli(),
		},
	}))

	go client.WritePump()
	client.ReadPump() // blocks until the client disconnects
}
