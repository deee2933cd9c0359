// Package transport encapsulates the websocket layer: socket lifecycle,
// inbound command parsing, acks, and room-scoped broadcasts. It is the
// only package that knows the wire format; the game engine just emits
// typed events through the Transport interface.
package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lithammer/shortuuid"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 15 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = 5 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue per client. Clients that cannot drain this are
	// dropped rather than allowed to stall a room.
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Identity is client-supplied and rooms are ephemeral; origin
		// checking is left to the reverse proxy.
		return true
	},
}

// Client is a middleman between one websocket connection and the hub.
// Each socket is bound to at most one (room, player) pair at a time.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id       string
	roomCode string
	playerID string
}

// readPump pumps messages from the websocket connection to the command
// router. There is at most one reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Str("conn", c.id).Err(err).Msg("unexpected close")
			}
			return
		}
		c.hub.dispatch(c, message)
	}
}

// writePump pumps messages from the send queue to the connection. There
// is at most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue offers a message to the client without blocking. It reports
// false when the queue is full; the hub drops such clients.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ServeWS upgrades an HTTP request to a websocket and registers the
// connection with the hub.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("upgrading socket")
		return
	}
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		id:   shortuuid.New(),
	}
	hub.register(client)

	go client.writePump()
	go client.readPump()
	log.Debug().Str("conn", client.id).Msg("socket connected")
}
