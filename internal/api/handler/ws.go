package handler

import (
	"net/http"

	"aptcare/backend/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The route sits behind RequireAuth + RequireAdmin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AdminEventsWS upgrades an admin connection to the live complaint feed.
func (h *Handler) AdminEventsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := notify.NewWSClient(conn, h.Hub)
	h.Hub.RegisterCh <- client
	client.Run()
}
