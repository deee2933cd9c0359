package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuseparty/internal/dict"
	"fuseparty/internal/game"
)

type nullTransport struct{}

func (nullTransport) Broadcast(roomCode, event string, payload any) {}
func (nullTransport) SendTo(socketID, event string, payload any)    {}

func testOptions() Options {
	return Options{
		Timings:      game.DefaultTimings(),
		DefaultRules: game.DefaultRules(),
		QueueSize:    64,
		IdleTimeout:  time.Hour,
		SweepEvery:   time.Hour,
	}
}

func testDict() game.Dictionary {
	return dict.FromWords([]string{"car", "art", "star"})
}

// scriptedRNG replays a fixed float sequence into the code generator.
func scriptedRNG(seq []float64) func() float64 {
	i := 0
	return func() float64 {
		v := seq[i%len(seq)]
		i++
		return v
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	gen, err := NewCodeGenerator("ABCDEFGH", 4, scriptedRNG([]float64{0.1, 0.3, 0.5, 0.7}))
	require.NoError(t, err)
	reg := NewRegistry(gen, testDict(), nullTransport{}, testOptions())
	defer reg.Close()

	room, err := reg.CreateRoom()
	require.NoError(t, err)
	require.NotEmpty(t, room.Code)

	got, err := reg.GetRoom(room.Code)
	require.NoError(t, err)
	assert.Same(t, room, got)

	_, err = reg.GetRoom("NOPE")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestRegistry_CollisionRetry(t *testing.T) {
	// The generator yields AAAA, then AAAA again, then AAAB: the second
	// create must retry past the collision.
	seq := []float64{
		0, 0, 0, 0, // AAAA
		0, 0, 0, 0, // AAAA (collides)
		0, 0, 0, 0.6, // AAAB
	}
	gen, err := NewCodeGenerator("AB", 4, scriptedRNG(seq))
	require.NoError(t, err)
	reg := NewRegistry(gen, testDict(), nullTransport{}, testOptions())
	defer reg.Close()

	first, err := reg.CreateRoom()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", first.Code)

	second, err := reg.CreateRoom()
	require.NoError(t, err)
	assert.Equal(t, "AAAB", second.Code)
	assert.Equal(t, 2, reg.RoomCount())
}

func TestRegistry_CodeSpaceExhausted(t *testing.T) {
	// A one-letter alphabet with length 1 has exactly one code; the
	// second create burns the whole retry budget.
	gen, err := NewCodeGenerator("A", 1, func() float64 { return 0 })
	require.NoError(t, err)
	reg := NewRegistry(gen, testDict(), nullTransport{}, testOptions())
	defer reg.Close()

	_, err = reg.CreateRoom()
	require.NoError(t, err)

	_, err = reg.CreateRoom()
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestRegistry_DestroyRoom(t *testing.T) {
	gen, err := NewCodeGenerator("ABCD", 4, scriptedRNG([]float64{0.1, 0.4, 0.6, 0.9}))
	require.NoError(t, err)
	reg := NewRegistry(gen, testDict(), nullTransport{}, testOptions())
	defer reg.Close()

	room, err := reg.CreateRoom()
	require.NoError(t, err)

	reg.DestroyRoom(room.Code)
	_, err = reg.GetRoom(room.Code)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	// Idempotent.
	reg.DestroyRoom(room.Code)
}

func TestRegistry_ReapsRoomWhenLastPlayerLeaves(t *testing.T) {
	gen, err := NewCodeGenerator("ABCD", 4, scriptedRNG([]float64{0.1, 0.4, 0.6, 0.9}))
	require.NoError(t, err)
	reg := NewRegistry(gen, testDict(), nullTransport{}, testOptions())
	defer reg.Close()

	room, err := reg.CreateRoom()
	require.NoError(t, err)
	require.NoError(t, room.AddPlayer("alice", "Alice"))
	require.NoError(t, room.RemovePlayer("alice"))

	require.Eventually(t, func() bool {
		_, err := reg.GetRoom(room.Code)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRegistry_SweepReapsIdleEmptyRooms(t *testing.T) {
	gen, err := NewCodeGenerator("ABCD", 4, scriptedRNG([]float64{0.1, 0.4, 0.6, 0.9}))
	require.NoError(t, err)
	opts := testOptions()
	opts.IdleTimeout = time.Nanosecond
	reg := NewRegistry(gen, testDict(), nullTransport{}, opts)
	defer reg.Close()

	room, err := reg.CreateRoom()
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	reg.sweep(time.Now())

	_, err = reg.GetRoom(room.Code)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	// Rooms with players survive the sweep.
	room2, err := reg.CreateRoom()
	require.NoError(t, err)
	require.NoError(t, room2.AddPlayer("alice", "Alice"))
	time.Sleep(10 * time.Millisecond)
	reg.sweep(time.Now())
	_, err = reg.GetRoom(room2.Code)
	assert.NoError(t, err)
}
