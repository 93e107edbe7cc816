package handlers

import (
	"net/http"

	ws "ideahub/server/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket authenticates the connection from the token query parameter
// (browsers cannot set headers on websocket upgrades) and registers it with
// the hub.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	userID := h.parseToken(c.Query("token"))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(userID, conn, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
