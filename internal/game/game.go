package game

import (
	"strings"
	"time"
)

// GameState is the state of a running game, independent of the room state.
type GameState string

const (
	GameActive GameState = "active"
	GameEnded  GameState = "ended"
)

// Game is one round of play: a snapshot of the seated players taken at
// start time, the current prompt fragment, and the bomb timing state.
// It is owned by the room actor and never escapes it.
type Game struct {
	RoomCode         string
	Players          []*Player // join order, fixed for the whole game
	CurrentTurnIndex int
	Fragment         string
	BombDeadline     time.Time
	BombDuration     time.Duration
	State            GameState
	Rules            Rules

	usedWords   map[string]struct{}
	decayFactor float64
}

func newGame(roomCode string, players []*Player, rules Rules, fragment string, bombDuration time.Duration, decayFactor float64) *Game {
	return &Game{
		RoomCode:     roomCode,
		Players:      players,
		Fragment:     fragment,
		BombDuration: bombDuration,
		State:        GameActive,
		Rules:        rules,
		usedWords:    make(map[string]struct{}),
		decayFactor:  decayFactor,
	}
}

func (g *Game) currentPlayer() *Player {
	if g.CurrentTurnIndex < 0 || g.CurrentTurnIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentTurnIndex]
}

func (g *Game) isUsed(word string) bool {
	_, ok := g.usedWords[strings.ToLower(word)]
	return ok
}

func (g *Game) markUsed(word string) {
	g.usedWords[strings.ToLower(word)] = struct{}{}
}

// alivePlayers returns the players still in the running.
func (g *Game) alivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsEliminated {
			alive = append(alive, p)
		}
	}
	return alive
}

// advanceTurn moves CurrentTurnIndex to the next player that is neither
// eliminated nor disconnected. It reports false when no candidate exists,
// which the caller must treat as the end of the game.
func (g *Game) advanceTurn() bool {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		idx := (g.CurrentTurnIndex + i) % n
		p := g.Players[idx]
		if !p.IsEliminated && p.IsConnected {
			g.CurrentTurnIndex = idx
			return true
		}
	}
	return false
}

// views materializes immutable per-player snapshots for broadcasting.
func (g *Game) views() []GamePlayerView {
	out := make([]GamePlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, p.gameView(g.Rules.BonusTemplate))
	}
	return out
}
