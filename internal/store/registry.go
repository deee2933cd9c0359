// Package store owns the process-wide room registry: room creation with
// unique short codes, lookup, and reaping of abandoned rooms.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"fuseparty/internal/game"
)

// ErrCodeSpaceExhausted means the generator kept colliding with live
// rooms until the retry budget ran out.
var ErrCodeSpaceExhausted = errors.New("room code space exhausted")

// codeRetryBudget bounds the collision retry loop in CreateRoom.
const codeRetryBudget = 100

// Options configures a Registry.
type Options struct {
	Timings      game.Timings
	DefaultRules game.Rules
	QueueSize    int
	IdleTimeout  time.Duration
	SweepEvery   time.Duration
}

// Registry maps room codes to live room actors. The map itself is
// guarded here; everything inside a room is confined to that room's
// command goroutine.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room

	gen       *CodeGenerator
	dict      game.Dictionary
	transport game.Transport
	opts      Options

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry wires the registry with its collaborators.
func NewRegistry(gen *CodeGenerator, dict game.Dictionary, transport game.Transport, opts Options) *Registry {
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = time.Minute
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Minute
	}
	r := &Registry{
		rooms:     make(map[string]*game.Room),
		gen:       gen,
		dict:      dict,
		transport: transport,
		opts:      opts,
		stop:      make(chan struct{}),
	}
	go r.janitor()
	return r
}

// CreateRoom allocates a unique code and starts a room actor for it.
func (r *Registry) CreateRoom() (*game.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for i := 0; ; i++ {
		if i >= codeRetryBudget {
			return nil, ErrCodeSpaceExhausted
		}
		code = r.gen.Next()
		if _, taken := r.rooms[code]; !taken {
			break
		}
	}

	room := game.NewRoom(code, r.opts.DefaultRules, r.dict, r.transport, r.opts.Timings, r.opts.QueueSize, r.reapEmpty)
	r.rooms[code] = room
	log.Info().Str("room", code).Msg("room created")
	return room, nil
}

// GetRoom looks up a live room by code.
func (r *Registry) GetRoom(code string) (*game.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room, nil
}

// DestroyRoom closes the room actor and drops the registry entry.
// Idempotent on unknown codes.
func (r *Registry) DestroyRoom(code string) {
	r.mu.Lock()
	room, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	r.mu.Unlock()
	if ok {
		room.Close()
		log.Info().Str("room", code).Msg("room destroyed")
	}
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Close shuts down the janitor and every room.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.mu.Lock()
	rooms := make([]*game.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.rooms = make(map[string]*game.Room)
	r.mu.Unlock()
	for _, room := range rooms {
		room.Close()
	}
}

// reapEmpty is handed to each room as its onEmpty callback. It runs on
// the room's actor goroutine, so it must not wait on the room.
func (r *Registry) reapEmpty(code string) {
	go r.DestroyRoom(code)
}

// janitor periodically destroys rooms that have sat empty past the idle
// timeout.
func (r *Registry) janitor() {
	ticker := time.NewTicker(r.opts.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.RLock()
	var stale []string
	for code, room := range r.rooms {
		if room.PlayerCount() == 0 && now.Sub(room.IdleSince()) > r.opts.IdleTimeout {
			stale = append(stale, code)
		}
	}
	r.mu.RUnlock()
	for _, code := range stale {
		log.Info().Str("room", code).Msg("reaping idle room")
		r.DestroyRoom(code)
	}
}
