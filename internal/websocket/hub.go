// Package websocket pushes workflow events to connected browsers.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"iglesia360/internal/middleware"
	"iglesia360/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientQueueLen = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the frontend runs on another origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one subscribed connection
type Client struct {
	ID     string
	UserID uint
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans workflow events out to every subscriber. Only Run touches the
// subscriber set.
type Hub struct {
	subscribers map[*Client]struct{}
	events      chan []byte
	join        chan *Client
	leave       chan *Client
	done        chan struct{}
}

// NewHub sizes the event queue; events published while it is full are dropped
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subscribers: make(map[*Client]struct{}),
		events:      make(chan []byte, bufferSize),
		join:        make(chan *Client),
		leave:       make(chan *Client),
		done:        make(chan struct{}),
	}
}

// Publish implements service.Notifier. It never blocks the workflow.
func (h *Hub) Publish(e model.WorkflowEvent) {
	frame, err := json.Marshal(e)
	if err != nil {
		log.Printf("websocket: encode %s event: %v", e.Type, err)
		return
	}
	select {
	case h.events <- frame:
	default:
		log.Printf("websocket: queue full, dropping %s for solicitud %d", e.Type, e.SolicitudID)
	}
}

// Run owns the subscriber set until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.join:
			h.subscribers[c] = struct{}{}
			log.Printf("websocket: client %s joined (user %d)", c.ID, c.UserID)
		case c := <-h.leave:
			h.drop(c)
		case frame := <-h.events:
			h.fanOut(frame)
		case <-h.done:
			for c := range h.subscribers {
				h.drop(c)
			}
			return
		}
	}
}

// Stop ends Run and closes every subscriber
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) fanOut(frame []byte) {
	for c := range h.subscribers {
		select {
		case c.send <- frame:
		default:
			// too slow to keep up
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.subscribers[c]; !ok {
		return
	}
	delete(h.subscribers, c)
	close(c.send)
	log.Printf("websocket: client %s left", c.ID)
}

// writeLoop sends queued frames, one per message, and keeps the peer alive with pings
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; it exists to notice pongs and disconnects
func (c *Client) readLoop() {
	defer func() {
		select {
		case c.hub.leave <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket: client %s: %v", c.ID, err)
			}
			return
		}
	}
}

// ServeWs upgrades GET /ws?token=<jwt> into a subscription
func ServeWs(hub *Hub, tokens *middleware.JWT, c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		log.Println("websocket: rejected, missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		log.Println("websocket: rejected, invalid token:", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		log.Println("websocket: rejected,", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket: upgrade failed:", err)
		return
	}
	client := &Client{ID: uuid.NewString(), UserID: userID, hub: hub, conn: conn, send: make(chan []byte, clientQueueLen)}

	select {
	case hub.join <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}
	go client.writeLoop()
	go client.readLoop()
}
