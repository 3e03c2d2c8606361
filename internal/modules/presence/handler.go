package presence

import (
	"net/http"

	"hotelops/internal/pkg/jwt"
	"hotelops/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub      *Hub
	tokens   *jwt.Service
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler builds the websocket endpoint. checkOrigin may be nil to accept
// any origin.
func NewHandler(hub *Hub, tokens *jwt.Service, checkOrigin func(r *http.Request) bool, log zerolog.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// RegisterWS mounts the socket outside the bearer-token group: browsers cannot
// set headers on a websocket handshake, so the token travels in the query.
func (h *Handler) RegisterWS(rg *gin.RouterGroup) {
	rg.GET("/ws/presence", h.HandleWebSocket)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/presence/online", h.Online)
}

// HandleWebSocket serves GET /ws/presence?token=JWT.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("user", claims.UserID).Msg("websocket upgrade failed")
		return
	}

	h.hub.Serve(conn, claims.UserID)
}

func (h *Handler) Online(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"users": h.hub.Online()})
}
