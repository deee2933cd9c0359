package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// RoomState is the lifecycle state of a room.
type RoomState string

const (
	StateLobby     RoomState = "lobby"
	StateCountdown RoomState = "countdown"
	StateActive    RoomState = "active"
	StateEnded     RoomState = "ended"
)

// Timings groups the engine durations that are configuration, not rules.
type Timings struct {
	Countdown   time.Duration
	InitialBomb time.Duration
	EndGrace    time.Duration
	DecayFactor float64
}

// DefaultTimings returns the production defaults.
func DefaultTimings() Timings {
	return Timings{
		Countdown:   3 * time.Second,
		InitialBomb: 10 * time.Second,
		EndGrace:    3 * time.Second,
		DecayFactor: 0.97,
	}
}

type command struct {
	name string
	fn   func()
}

// Room owns all mutable state for one game room. Every mutation and
// every timer callback runs on the room's single command goroutine, so
// no per-field locking is needed.
type Room struct {
	Code string

	rules    Rules
	state    RoomState
	players  []*Player // join order
	leaderID string
	game     *Game

	dict      Dictionary
	transport Transport
	timings   Timings

	cmds      chan command
	closed    chan struct{}
	closeOnce sync.Once

	// onEmpty fires (from the actor) when the last player leaves and no
	// game is running. The registry uses it to reap the room.
	onEmpty func(code string)

	// generation invalidates stale timer callbacks. It is bumped on
	// every turn advance, game start, and game end.
	generation uint64

	countdownTimer *time.Timer
	bombTimer      *time.Timer
	graceTimer     *time.Timer

	// lock-free stats for the registry janitor
	playerCount  atomic.Int32
	gameRunning  atomic.Bool
	lastActivity atomic.Int64 // unix nano
}

// NewRoom creates a room in the lobby state and starts its actor.
func NewRoom(code string, rules Rules, dict Dictionary, transport Transport, timings Timings, queueSize int, onEmpty func(code string)) *Room {
	if queueSize <= 0 {
		queueSize = 1024
	}
	r := &Room{
		Code:      code,
		rules:     rules,
		state:     StateLobby,
		dict:      dict,
		transport: transport,
		timings:   timings,
		cmds:      make(chan command, queueSize),
		closed:    make(chan struct{}),
		onEmpty:   onEmpty,
	}
	r.lastActivity.Store(time.Now().UnixNano())
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case cmd := <-r.cmds:
			r.lastActivity.Store(time.Now().UnixNano())
			cmd.fn()
		case <-r.closed:
			r.stopTimers()
			return
		}
	}
}

// do enqueues fn on the room's command queue. A full queue returns
// ErrBusy; the caller decides its own drop policy.
func (r *Room) do(name string, fn func()) error {
	select {
	case <-r.closed:
		return ErrRoomClosed
	default:
	}
	select {
	case r.cmds <- command{name: name, fn: fn}:
		return nil
	default:
		log.Warn().Str("room", r.Code).Str("cmd", name).Msg("command queue full")
		return ErrBusy
	}
}

// doSync enqueues fn and waits for its result.
func (r *Room) doSync(name string, fn func() error) error {
	res := make(chan error, 1)
	if err := r.do(name, func() { res <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-res:
		return err
	case <-r.closed:
		return ErrRoomClosed
	}
}

// Close shuts the actor down and cancels all timers. Idempotent.
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
}

func (r *Room) stopTimers() {
	if r.countdownTimer != nil {
		r.countdownTimer.Stop()
	}
	if r.bombTimer != nil {
		r.bombTimer.Stop()
	}
	if r.graceTimer != nil {
		r.graceTimer.Stop()
	}
}

// PlayerCount is safe to call from outside the actor.
func (r *Room) PlayerCount() int { return int(r.playerCount.Load()) }

// GameRunning is safe to call from outside the actor.
func (r *Room) GameRunning() bool { return r.gameRunning.Load() }

// IdleSince reports the last time the room processed a command.
func (r *Room) IdleSince() time.Time { return time.Unix(0, r.lastActivity.Load()) }

func (r *Room) emit(event string, payload any) {
	r.transport.Broadcast(r.Code, event, payload)
}

// AddPlayer joins a player, or reconnects them if the same ID is already
// present. Idempotent on ID.
func (r *Room) AddPlayer(id, name string) error {
	return r.doSync("add-player", func() error {
		if p := r.findPlayer(id); p != nil {
			p.IsConnected = true
			if name != "" {
				p.Name = name
			}
			r.membershipChanged()
			return nil
		}
		r.players = append(r.players, NewPlayer(id, name, r.rules))
		r.membershipChanged()
		return nil
	})
}

// RemovePlayer handles an explicit leave. While a game is running the
// player is eliminated rather than removed, so the turn order and the
// used-word history stay intact until the game ends.
func (r *Room) RemovePlayer(id string) error {
	return r.doSync("remove-player", func() error {
		p := r.findPlayer(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		r.dropOrEliminate(p)
		return nil
	})
}

// HandleDisconnect is RemovePlayer for transport-initiated closes. It
// never errors; a disconnect for an unknown player is a no-op.
func (r *Room) HandleDisconnect(id string) {
	err := r.do("disconnect", func() {
		if p := r.findPlayer(id); p != nil {
			r.dropOrEliminate(p)
		}
	})
	if err != nil {
		log.Warn().Str("room", r.Code).Str("player", id).Err(err).Msg("dropping disconnect")
	}
}

// dropOrEliminate applies the leave/disconnect policy for the current
// room state. Must run on the actor.
func (r *Room) dropOrEliminate(p *Player) {
	switch r.state {
	case StateLobby, StateEnded:
		r.deletePlayer(p.ID)
		r.membershipChanged()
	case StateCountdown:
		p.IsConnected = false
		r.eliminate(p)
		r.membershipChanged()
		r.checkGameOver()
	case StateActive:
		p.IsConnected = false
		wasCurrent := r.game != nil && r.game.currentPlayer() == p
		r.eliminate(p)
		r.membershipChanged()
		if r.checkGameOver() {
			return
		}
		if wasCurrent {
			// The bomb must not fire for a player that is gone.
			r.nextTurn(false)
		}
	}
}

// SetSeated toggles the lobby seat flag. Only valid in the lobby.
func (r *Room) SetSeated(id string, seated bool) error {
	return r.doSync("set-seated", func() error {
		if r.state != StateLobby {
			return ErrIllegalState
		}
		p := r.findPlayer(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.IsSeated = seated
		r.emitPlayersUpdated()
		return nil
	})
}

// UpdateRules replaces the room rules. Leader-only, lobby-only.
func (r *Room) UpdateRules(byID string, rules Rules) error {
	return r.doSync("update-rules", func() error {
		if r.state != StateLobby {
			return ErrIllegalState
		}
		if byID != r.leaderID {
			return ErrNotAuthorized
		}
		if err := rules.Validate(); err != nil {
			return err
		}
		r.rules = rules
		for _, p := range r.players {
			p.Lives = rules.StartingLives
			p.Bonus = NewBonusProgress(rules.BonusTemplate)
		}
		r.emit(EventRoomRulesUpdated, RoomRulesUpdatedPayload{RoomCode: r.Code, Rules: rules})
		return nil
	})
}

// Rules returns a copy of the current rules.
func (r *Room) Rules() (Rules, error) {
	var out Rules
	err := r.doSync("get-rules", func() error {
		out = r.rules
		return nil
	})
	return out, err
}

// LobbyView returns the current players-updated payload.
func (r *Room) LobbyView() (PlayersUpdatedPayload, error) {
	var out PlayersUpdatedPayload
	err := r.doSync("lobby-view", func() error {
		out = r.playersUpdatedPayload()
		return nil
	})
	return out, err
}

func (r *Room) findPlayer(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) deletePlayer(id string) {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

// electLeader picks the earliest-joined connected player. The players
// slice is join-ordered, so the first connected entry wins.
func (r *Room) electLeader() {
	r.leaderID = ""
	for _, p := range r.players {
		if p.IsConnected {
			r.leaderID = p.ID
			return
		}
	}
}

// membershipChanged recomputes derived state and broadcasts the lobby
// view after any join/leave/reconnect.
func (r *Room) membershipChanged() {
	r.electLeader()
	r.playerCount.Store(int32(len(r.players)))
	r.emitPlayersUpdated()
	if len(r.players) == 0 && r.game == nil && r.onEmpty != nil {
		r.onEmpty(r.Code)
	}
}

func (r *Room) playersUpdatedPayload() PlayersUpdatedPayload {
	views := make([]RoomPlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, p.roomView())
	}
	return PlayersUpdatedPayload{LeaderID: r.leaderID, Players: views}
}

func (r *Room) emitPlayersUpdated() {
	r.emit(EventPlayersUpdated, r.playersUpdatedPayload())
}
