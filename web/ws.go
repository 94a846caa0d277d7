// ABOUTME: WebSocket fanout pushing change signals to connected displays
// ABOUTME: Bridges the in-process bus to kiosk screens and admin tabs

package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harperreed/marquee/bus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The kiosk and editor pages are served by this same process.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// signalFrame is the only message clients ever receive. It carries no
// payload: the client refetches whatever the signal names.
type signalFrame struct {
	Signal string `json:"signal"`
}

// Hub fans change frames out to every connected WebSocket client. All
// client bookkeeping happens on the run loop, so no lock is needed.
type Hub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub ready to Start.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 16),
	}
}

// Start launches the fanout loop.
func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// A client this far behind is not reading; drop it.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Notify queues a change frame for every connected client. The bus
// delivers on the publisher's goroutine, so this must never block; a
// full queue drops the frame, which is harmless because frames carry
// no payload.
func (h *Hub) Notify(sig bus.Signal) {
	frame, err := json.Marshal(signalFrame{Signal: string(sig)})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- frame:
	default:
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade failed: %v", err)
		return
	}

	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, 8)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; displays only listen. It exists to
// run the pong handler and to notice when the peer goes away.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
