package events

import (
	"log"
	"net/http"

	"photovault/internal/middleware"
	"photovault/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure in prod
}

type Handler struct {
	hub  *Hub
	auth middleware.Authenticator
}

func NewHandler(hub *Hub, auth middleware.Authenticator) *Handler {
	return &Handler{hub: hub, auth: auth}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/ws", h.Serve)
}

// Serve upgrades the connection and streams the owner's gallery events.
// Browsers cannot set headers on WebSocket dials, so the credential may
// also arrive as a "token" query parameter; it goes through the same
// Authenticator either way.
func (h *Handler) Serve(c *gin.Context) {
	r := c.Request
	if r.Header.Get("Authorization") == "" {
		if token := c.Query("token"); token != "" {
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}

	owner, err := h.auth.Resolve(r)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "No owner identity provided")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed owner=%s error=%q", owner, err)
		return
	}

	log.Printf("ws_connected owner=%s", owner)
	h.hub.Attach(owner, conn) // blocks until disconnect
	log.Printf("ws_disconnected owner=%s", owner)
}
