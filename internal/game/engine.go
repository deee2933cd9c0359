package game

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// StartGame snapshots the seated, connected players into a new game and
// kicks off the countdown. Leader-only, lobby-only, needs two players.
func (r *Room) StartGame(byID string) error {
	return r.doSync("start-game", func() error {
		if r.state != StateLobby {
			return ErrIllegalState
		}
		if byID != r.leaderID {
			return ErrNotAuthorized
		}
		participants := make([]*Player, 0, len(r.players))
		for _, p := range r.players {
			if p.IsSeated && p.IsConnected {
				participants = append(participants, p)
			}
		}
		if len(participants) < 2 {
			return ErrNotEnoughPlayers
		}

		fragment, err := r.dict.SampleFragment(r.rules.MinWordsPerPrompt)
		if err != nil {
			return err
		}

		for _, p := range participants {
			p.Lives = r.rules.StartingLives
			p.IsEliminated = false
			p.Bonus = NewBonusProgress(r.rules.BonusTemplate)
		}

		bomb := r.timings.InitialBomb
		if floor := time.Duration(r.rules.MinTurnDuration) * time.Second; bomb < floor {
			bomb = floor
		}
		r.game = newGame(r.Code, participants, r.rules, fragment, bomb, r.timings.DecayFactor)
		r.state = StateCountdown
		r.gameRunning.Store(true)
		r.generation++

		deadline := time.Now().Add(r.timings.Countdown)
		r.emit(EventCountdownStarted, CountdownStartedPayload{Deadline: deadline.UnixMilli()})
		r.countdownTimer = r.schedule(r.timings.Countdown, "countdown", r.beginActive)
		return nil
	})
}

// schedule arms a timer whose callback re-enters the actor and no-ops if
// the generation has moved since it was armed. This is the only guard
// against stale fires; cancellation via Stop is best effort.
func (r *Room) schedule(d time.Duration, name string, fn func()) *time.Timer {
	gen := r.generation
	return time.AfterFunc(d, func() {
		err := r.do(name, func() {
			if gen != r.generation {
				log.Debug().Str("room", r.Code).Str("timer", name).Msg("stale timer fire")
				return
			}
			fn()
		})
		if err != nil {
			log.Warn().Str("room", r.Code).Str("timer", name).Err(err).Msg("dropping timer fire")
		}
	})
}

// beginActive transitions Countdown -> Active and starts the first turn.
func (r *Room) beginActive() {
	if r.state != StateCountdown || r.game == nil {
		return
	}
	// A countdown-phase disconnect eliminates the player but leaves the
	// turn index at zero. Never open on a dead seat.
	current := r.game.currentPlayer()
	if current == nil || current.IsEliminated || !current.IsConnected {
		if !r.game.advanceTurn() {
			r.endGame()
			return
		}
		current = r.game.currentPlayer()
	}
	r.state = StateActive
	r.game.State = GameActive
	var currentID string
	if current != nil {
		currentID = current.ID
	}
	r.emit(EventGameStarted, GameStartedPayload{
		RoomCode:      r.Code,
		Fragment:      r.game.Fragment,
		BombDuration:  r.game.BombDuration.Milliseconds(),
		CurrentPlayer: optional(currentID),
		LeaderID:      optional(r.leaderID),
		Players:       r.game.views(),
	})
	r.armBomb()
}

// armBomb sets the bomb deadline and schedules the fire for the current
// generation.
func (r *Room) armBomb() {
	g := r.game
	g.BombDeadline = time.Now().Add(g.BombDuration)
	r.bombTimer = r.schedule(g.BombDuration, "bomb", r.bombFired)
}

// bombFired is the timeout path: the current player burns a life.
func (r *Room) bombFired() {
	if r.state != StateActive || r.game == nil {
		return
	}
	p := r.game.currentPlayer()
	if p == nil {
		log.Error().Str("room", r.Code).Msg("bomb fired with no current player")
		r.checkGameOver()
		return
	}
	if p.Lives > 0 {
		p.Lives--
	}
	if p.Lives == 0 {
		p.IsEliminated = true
	}
	r.emit(EventPlayerUpdated, PlayerUpdatedPayload{PlayerID: p.ID, Lives: p.Lives})
	if r.checkGameOver() {
		return
	}
	r.nextTurn(true)
}

// nextTurn advances to the next live player, resamples the fragment,
// rearms the bomb, and announces the turn. resample=false keeps the
// current fragment, used when the turn moves because the current player
// disconnected rather than because the turn resolved.
func (r *Room) nextTurn(resample bool) {
	g := r.game
	if r.bombTimer != nil {
		r.bombTimer.Stop()
	}
	r.generation++
	if !g.advanceTurn() {
		r.endGame()
		return
	}
	if resample {
		fragment, err := r.dict.SampleFragment(g.Rules.MinWordsPerPrompt)
		if err != nil {
			// An empty dictionary mid-game should be impossible; keep
			// the old fragment and keep playing.
			log.Error().Str("room", r.Code).Err(err).Msg("fragment resample failed")
		} else {
			g.Fragment = fragment
		}
	}
	r.armBomb()
	current := g.currentPlayer()
	var currentID string
	if current != nil {
		currentID = current.ID
	}
	r.emit(EventTurnStarted, TurnStartedPayload{
		PlayerID:     optional(currentID),
		Fragment:     g.Fragment,
		BombDuration: g.BombDuration.Milliseconds(),
		Players:      g.views(),
	})
}

// SubmitWord validates and applies a word for the submitting player.
// A nil return means the word was accepted; rejections come back as
// *SubmissionError and never mutate state.
func (r *Room) SubmitWord(playerID, word string) error {
	return r.doSync("submit-word", func() error {
		if r.state != StateActive || r.game == nil {
			return ErrIllegalState
		}
		g := r.game
		if reason := g.validateSubmission(playerID, word, r.dict); reason != "" {
			return &SubmissionError{Reason: reason}
		}
		p := g.currentPlayer()
		awarded := g.applyAcceptedWord(p, strings.TrimSpace(word))
		r.emit(EventWordAccepted, WordAcceptedPayload{PlayerID: p.ID, Word: strings.TrimSpace(word)})
		if awarded {
			r.emit(EventPlayerUpdated, PlayerUpdatedPayload{PlayerID: p.ID, Lives: p.Lives})
		}
		r.nextTurn(true)
		return nil
	})
}

// PlayerTyping forwards live input to the room. Only the current player
// while the game is active; everything else is dropped silently.
func (r *Room) PlayerTyping(playerID, input string) {
	err := r.do("player-typing", func() {
		if r.state != StateActive || r.game == nil {
			return
		}
		current := r.game.currentPlayer()
		if current == nil || current.ID != playerID {
			return
		}
		r.emit(EventPlayerTyping, PlayerTypingPayload{PlayerID: playerID, Input: input})
	})
	if err != nil {
		log.Debug().Str("room", r.Code).Err(err).Msg("dropping typing update")
	}
}

// eliminate zeroes a player's lives. Only meaningful while a game holds
// a snapshot containing the player.
func (r *Room) eliminate(p *Player) {
	if r.game == nil || p.IsEliminated {
		return
	}
	in := false
	for _, gp := range r.game.Players {
		if gp == p {
			in = true
			break
		}
	}
	if !in {
		return
	}
	p.Lives = 0
	p.IsEliminated = true
	r.emit(EventPlayerUpdated, PlayerUpdatedPayload{PlayerID: p.ID, Lives: 0})
}

// checkGameOver ends the game when at most one player is left standing.
// Returns true if the game ended.
func (r *Room) checkGameOver() bool {
	if r.game == nil || r.game.State == GameEnded {
		return false
	}
	if len(r.game.alivePlayers()) > 1 {
		return false
	}
	r.endGame()
	return true
}

// endGame emits game-ended exactly once and schedules the return to the
// lobby after the grace period.
func (r *Room) endGame() {
	g := r.game
	if g == nil || g.State == GameEnded {
		return
	}
	g.State = GameEnded
	r.state = StateEnded
	r.generation++
	r.stopTimers()

	var winnerID string
	if alive := g.alivePlayers(); len(alive) == 1 {
		winnerID = alive[0].ID
	}
	r.emit(EventGameEnded, GameEndedPayload{WinnerID: optional(winnerID)})
	r.graceTimer = r.schedule(r.timings.EndGrace, "end-grace", r.returnToLobby)
}

// returnToLobby clears the game, restores lobby defaults, and drops the
// players that went away while the game was running.
func (r *Room) returnToLobby() {
	r.game = nil
	r.state = StateLobby
	r.gameRunning.Store(false)

	kept := r.players[:0]
	for _, p := range r.players {
		if !p.IsConnected {
			continue
		}
		p.Lives = r.rules.StartingLives
		p.IsEliminated = false
		p.Bonus = NewBonusProgress(r.rules.BonusTemplate)
		kept = append(kept, p)
	}
	r.players = kept
	r.membershipChanged()
}
