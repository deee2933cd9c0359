package transport

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"fuseparty/internal/game"
)

// Inbound command names.
const (
	cmdCreateRoom   = "create-room"
	cmdJoinRoom     = "join-room"
	cmdLeaveRoom    = "leave-room"
	cmdSetSeated    = "set-player-seated"
	cmdUpdateRules  = "update-room-rules"
	cmdStartGame    = "start-game"
	cmdPlayerTyping = "player-typing"
	cmdSubmitWord   = "submit-word"
)

const invalidPayload = "Invalid payload."

// Ack is the acknowledgement frame sent back for a command.
type Ack struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"` // create-room result
	ClientActionID string `json:"clientActionId,omitempty"`
}

// dispatch routes one inbound frame. Validation failures ack and never
// touch state; engine errors come back as acks with the error message.
func (h *Hub) dispatch(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		h.ack(c, "", Ack{Success: false, Error: invalidPayload})
		return
	}

	switch env.Event {
	case cmdCreateRoom:
		room, err := h.registry.CreateRoom()
		if err != nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: err.Error()})
			return
		}
		h.ack(c, env.AckID, Ack{Success: true, Code: room.Code})

	case cmdJoinRoom:
		cmd := parseJoinRoom(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		room, err := h.registry.GetRoom(cmd.RoomCode)
		if err != nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: err.Error()})
			return
		}
		// Subscribe before joining so this socket sees the join's own
		// players-updated broadcast.
		h.bindRoom(c, cmd.RoomCode, cmd.PlayerID)
		if err := room.AddPlayer(cmd.PlayerID, cmd.Name); err != nil {
			h.unbindRoom(c)
			h.ack(c, env.AckID, Ack{Success: false, Error: err.Error()})
			return
		}
		h.ack(c, env.AckID, Ack{Success: true})

	case cmdLeaveRoom:
		cmd := parseRoomPlayer(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		h.roomOp(c, env.AckID, cmd.RoomCode, func(room *game.Room) error {
			if err := room.RemovePlayer(cmd.PlayerID); err != nil {
				return err
			}
			h.unbindRoom(c)
			return nil
		})

	case cmdSetSeated:
		cmd := parseSetSeated(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		h.roomOp(c, env.AckID, cmd.RoomCode, func(room *game.Room) error {
			return room.SetSeated(cmd.PlayerID, cmd.Seated)
		})

	case cmdUpdateRules:
		cmd := parseUpdateRules(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		h.roomOp(c, env.AckID, cmd.RoomCode, func(room *game.Room) error {
			return room.UpdateRules(c.playerID, cmd.Rules)
		})

	case cmdStartGame:
		cmd := parseStartGame(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		h.roomOp(c, env.AckID, cmd.RoomCode, func(room *game.Room) error {
			return room.StartGame(c.playerID)
		})

	case cmdPlayerTyping:
		cmd := parsePlayerTyping(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		if room, err := h.registry.GetRoom(cmd.RoomCode); err == nil {
			room.PlayerTyping(cmd.PlayerID, cmd.Input)
		}

	case cmdSubmitWord:
		cmd := parseSubmitWord(env.Data)
		if cmd == nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
			return
		}
		room, err := h.registry.GetRoom(cmd.RoomCode)
		if err != nil {
			h.ack(c, env.AckID, Ack{Success: false, Error: err.Error(), ClientActionID: cmd.ClientActionID})
			return
		}
		err = room.SubmitWord(cmd.PlayerID, cmd.Word)
		resp := Ack{Success: err == nil, ClientActionID: cmd.ClientActionID}
		var rej *game.SubmissionError
		switch {
		case err == nil:
		case errors.As(err, &rej):
			resp.Error = rej.Reason
		default:
			resp.Error = err.Error()
		}
		h.ack(c, env.AckID, resp)

	default:
		log.Debug().Str("event", env.Event).Str("conn", c.id).Msg("unknown command")
		h.ack(c, env.AckID, Ack{Success: false, Error: invalidPayload})
	}
}

// roomOp looks up the room and acks the result of fn.
func (h *Hub) roomOp(c *Client, ackID, roomCode string, fn func(*game.Room) error) {
	room, err := h.registry.GetRoom(roomCode)
	if err == nil {
		err = fn(room)
	}
	if err != nil {
		h.ack(c, ackID, Ack{Success: false, Error: err.Error()})
		return
	}
	h.ack(c, ackID, Ack{Success: true})
}

// ack sends an acknowledgement frame back on the originating socket.
func (h *Hub) ack(c *Client, ackID string, a Ack) {
	data, err := json.Marshal(a)
	if err != nil {
		log.Err(err).Msg("marshalling ack")
		return
	}
	msg, err := json.Marshal(envelope{Event: "ack", Data: data, AckID: ackID})
	if err != nil {
		log.Err(err).Msg("marshalling ack envelope")
		return
	}
	if !c.enqueue(msg) {
		c.conn.Close()
	}
}
