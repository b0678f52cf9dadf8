package notify

import (
	"encoding/json"
	"time"

	"aptcare/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WSClient is one admin dashboard connection. The feed is outbound-only:
// readPump exists to react to pings and connection close.
type WSClient struct {
	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.ComplaintEvent
}

func NewWSClient(conn *websocket.Conn, hub *Hub) *WSClient {
	return &WSClient{
		Conn: conn,
		Hub:  hub,
		Send: make(chan models.ComplaintEvent, 64),
	}
}

// Deliver is called from the hub goroutine; it never blocks.
func (c *WSClient) Deliver(ev models.ComplaintEvent) bool {
	select {
	case c.Send <- ev:
		return true
	default:
		return false
	}
}

func (c *WSClient) Close() {
	close(c.Send)
}

func (c *WSClient) Run() {
	go c.writePump()
	go c.readPump()
}

func (c *WSClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Inbound frames are ignored; the loop exists to surface errors.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
