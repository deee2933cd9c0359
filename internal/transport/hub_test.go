package transport

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuseparty/internal/dict"
	"fuseparty/internal/game"
	"fuseparty/internal/store"
)

func newTestHub(t *testing.T) (*Hub, *store.Registry) {
	t.Helper()
	gen, err := store.NewCodeGenerator("ABCD", 4, rand.Float64)
	require.NoError(t, err)
	h := NewHub()
	reg := store.NewRegistry(gen, dict.FromWords([]string{"car", "art"}), h, store.Options{
		Timings:      game.DefaultTimings(),
		DefaultRules: game.DefaultRules(),
		QueueSize:    64,
		IdleTimeout:  time.Hour,
		SweepEvery:   time.Hour,
	})
	t.Cleanup(reg.Close)
	h.Bind(reg)
	return h, reg
}

func newTestClient(h *Hub, id string) *Client {
	return &Client{hub: h, send: make(chan []byte, 64), id: id}
}

// waitAck drains the client's queue until an ack frame arrives,
// skipping room broadcasts.
func waitAck(t *testing.T, c *Client) (string, Ack) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-c.send:
			var env envelope
			require.NoError(t, json.Unmarshal(msg, &env))
			if env.Event != "ack" {
				continue
			}
			var a Ack
			require.NoError(t, json.Unmarshal(env.Data, &a))
			return env.AckID, a
		case <-deadline:
			t.Fatal("timed out waiting for ack")
			return "", Ack{}
		}
	}
}

func TestSendTo(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "s1")
	h.register(c)

	h.SendTo("s1", "ack", Ack{Success: true})
	require.Len(t, c.send, 1)

	// After unregister the socket is gone from the map; a late send is a
	// clean no-op, never a write to the closed channel.
	h.unregister(c)
	h.SendTo("s1", "ack", Ack{Success: true})
	h.SendTo("nobody", "ack", Ack{Success: true})
}

func TestDispatch_InvalidTypingPayloadAcked(t *testing.T) {
	h, _ := newTestHub(t)
	c := newTestClient(h, "s1")
	h.register(c)

	h.dispatch(c, []byte(`{"event":"player-typing","data":{"roomCode":"ABCD"},"ackId":"t1"}`))

	ackID, a := waitAck(t, c)
	assert.Equal(t, "t1", ackID)
	assert.False(t, a.Success)
	assert.Equal(t, invalidPayload, a.Error)
}

func TestDispatch_LeaveRoomKeepsSubscriptionOnError(t *testing.T) {
	h, reg := newTestHub(t)
	room, err := reg.CreateRoom()
	require.NoError(t, err)

	c := newTestClient(h, "s1")
	h.register(c)
	h.bindRoom(c, room.Code, "alice")
	require.NoError(t, room.AddPlayer("alice", "Alice"))

	// A failed leave (unknown player) must not unsubscribe the socket
	// from the room it still belongs to.
	frame := fmt.Sprintf(`{"event":"leave-room","data":{"roomCode":%q,"playerId":"ghost"},"ackId":"l1"}`, room.Code)
	h.dispatch(c, []byte(frame))

	ackID, a := waitAck(t, c)
	assert.Equal(t, "l1", ackID)
	assert.False(t, a.Success)
	assert.Equal(t, room.Code, c.roomCode)

	// A real leave succeeds and unbinds.
	frame = fmt.Sprintf(`{"event":"leave-room","data":{"roomCode":%q,"playerId":"alice"},"ackId":"l2"}`, room.Code)
	h.dispatch(c, []byte(frame))
	ackID, a = waitAck(t, c)
	assert.Equal(t, "l2", ackID)
	assert.True(t, a.Success)
	assert.Empty(t, c.roomCode)
}
