package feedhub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"civicbot/backend/internal/config"
	"civicbot/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one connected dashboard WebSocket. The feed is one-way: the
// read pump exists only to service pings and detect the close.
type Client struct {
	Actor models.Actor
	Conn  *websocket.Conn
	Hub   *Hub
	Send  chan models.AuditLog

	closeOnce sync.Once
}

// NewClient wraps a websocket connection for the given actor.
func NewClient(hub *Hub, actor models.Actor, conn *websocket.Conn) *Client {
	return &Client{
		Actor: actor,
		Conn:  conn,
		Hub:   hub,
		Send:  make(chan models.AuditLog, config.FeedSendBuffer),
	}
}

// Run starts the client's pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. Safe to call
// from both the hub and the read pump.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

func (c *Client) readPump() {
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
		// Feed clients send nothing meaningful; discard anything until
		// the connection drops.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WARN: Feed client %s read error: %v", c.Actor.ID, err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case entry, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(entry)
			if err != nil {
				log.Printf("ERROR: Failed to encode feed entry for client %s: %v", c.Actor.ID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
