package game

import (
	"strings"
	"time"
)

// Rejection reasons surfaced to the submitting client. The strings are
// part of the wire contract.
const (
	ReasonNotYourTurn     = "Not your turn."
	ReasonTooShort        = "Invalid word (too short)."
	ReasonMissingFragment = "Word doesn't contain the fragment."
	ReasonAlreadyUsed     = "Word already used this game."
	ReasonNotAWord        = "Not a valid word."
)

// SubmissionError carries the rejection reason for a word submission.
// Submissions that fail validation never mutate game state.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string { return e.Reason }

// validateSubmission checks a raw submission against the current turn,
// the prompt fragment, the used-word history, and the dictionary. It
// returns the empty string when the word is acceptable.
func (g *Game) validateSubmission(playerID, rawWord string, dict Dictionary) string {
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return ReasonNotYourTurn
	}
	w := strings.TrimSpace(rawWord)
	if len(w) < 2 {
		return ReasonTooShort
	}
	lower := strings.ToLower(w)
	if !strings.Contains(lower, g.Fragment) {
		return ReasonMissingFragment
	}
	if g.isUsed(lower) {
		return ReasonAlreadyUsed
	}
	if !dict.IsValid(w) {
		return ReasonNotAWord
	}
	return ""
}

// applyAcceptedWord records the word and feeds its letters to the
// player's bonus progress left to right. At most one life can be awarded
// per submission because the counters reset on award. The returned flag
// tells the caller whether a player-updated broadcast is due.
func (g *Game) applyAcceptedWord(p *Player, word string) (awardedLife bool) {
	g.markUsed(word)
	for _, r := range word {
		if p.Bonus.TryLetter(r, g.Rules.BonusTemplate) {
			if p.Lives < g.Rules.MaxLives {
				p.Lives++
			}
			awardedLife = true
		}
	}
	g.decayBombDuration()
	return awardedLife
}

// decayBombDuration shortens the next bomb fuse after an accepted word,
// never dropping below the minTurnDuration floor.
func (g *Game) decayBombDuration() {
	decayed := time.Duration(float64(g.BombDuration) * g.decayFactor)
	floor := time.Duration(g.Rules.MinTurnDuration) * time.Second
	if decayed < floor {
		decayed = floor
	}
	g.BombDuration = decayed
}
