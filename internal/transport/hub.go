package transport

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"fuseparty/internal/store"
)

// envelope is the wire frame in both directions. Inbound frames carry
// the command payload in Data; outbound frames carry event payloads.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID string          `json:"ackId,omitempty"`
}

// Hub tracks live sockets and their room subscriptions, and implements
// the engine's Transport interface. All sends are non-blocking: a
// client whose queue is full gets disconnected instead of stalling a
// room actor.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // conn ID -> client
	rooms   map[string]map[*Client]string // room code -> client -> player ID

	registry *store.Registry
}

// NewHub creates an empty hub. Bind must be called before serving.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]string),
	}
}

// Bind attaches the registry. Separate from NewHub because the registry
// needs the hub as its Transport at construction.
func (h *Hub) Bind(registry *store.Registry) {
	h.registry = registry
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// unregister drops the socket and, if it was bound to a room, tells the
// room the player is gone.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, known := h.clients[c.id]
	delete(h.clients, c.id)
	roomCode, playerID := c.roomCode, c.playerID
	if members, ok := h.rooms[roomCode]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
	h.mu.Unlock()
	if !known {
		return
	}
	close(c.send)

	if roomCode != "" && playerID != "" && h.registry != nil {
		if room, err := h.registry.GetRoom(roomCode); err == nil {
			room.HandleDisconnect(playerID)
		}
	}
	log.Debug().Str("conn", c.id).Str("room", roomCode).Msg("socket disconnected")
}

// bindRoom subscribes the socket to a room topic after a join.
func (h *Hub) bindRoom(c *Client, roomCode, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[c.roomCode]; ok && c.roomCode != roomCode {
		delete(members, c)
	}
	c.roomCode = roomCode
	c.playerID = playerID
	members := h.rooms[roomCode]
	if members == nil {
		members = make(map[*Client]string)
		h.rooms[roomCode] = members
	}
	members[c] = playerID
}

// unbindRoom drops the subscription after an explicit leave.
func (h *Hub) unbindRoom(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[c.roomCode]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.roomCode)
		}
	}
	c.roomCode = ""
	c.playerID = ""
}

// Broadcast sends an event to every socket subscribed to the room.
// Fire-and-forget: slow clients are dropped, never waited on.
func (h *Hub) Broadcast(roomCode, event string, payload any) {
	msg, err := marshalEvent(event, payload)
	if err != nil {
		log.Err(err).Str("event", event).Msg("marshalling broadcast")
		return
	}
	h.mu.RLock()
	var stalled []*Client
	for c := range h.rooms[roomCode] {
		if !c.enqueue(msg) {
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range stalled {
		log.Warn().Str("conn", c.id).Str("room", roomCode).Msg("dropping stalled client")
		c.conn.Close()
	}
}

// SendTo sends an event to a single socket.
func (h *Hub) SendTo(socketID, event string, payload any) {
	msg, err := marshalEvent(event, payload)
	if err != nil {
		log.Err(err).Str("event", event).Msg("marshalling send")
		return
	}
	// Enqueue while still holding the lock: unregister closes the send
	// channel only after removing the client from the map under the
	// write lock, so a send can never race the close.
	h.mu.RLock()
	c, ok := h.clients[socketID]
	stalled := ok && !c.enqueue(msg)
	h.mu.RUnlock()
	if !ok {
		log.Debug().Str("conn", socketID).Msg("socket not found")
		return
	}
	if stalled {
		log.Warn().Str("conn", socketID).Msg("dropping stalled client")
		c.conn.Close()
	}
}

func marshalEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: data})
}
