package game

import "fmt"

// Rules are the per-room settings the leader can change while the room
// is in the lobby.
type Rules struct {
	MaxLives          int     `json:"maxLives"`
	StartingLives     int     `json:"startingLives"`
	BonusTemplate     [26]int `json:"bonusTemplate"`
	MinTurnDuration   int     `json:"minTurnDuration"` // seconds
	MinWordsPerPrompt int     `json:"minWordsPerPrompt"`
}

// DefaultRules returns the rules a freshly created room starts with.
func DefaultRules() Rules {
	r := Rules{
		MaxLives:          3,
		StartingLives:     3,
		MinTurnDuration:   5,
		MinWordsPerPrompt: 500,
	}
	for i := range r.BonusTemplate {
		r.BonusTemplate[i] = 1
	}
	// Rare letters are not required for the bonus life.
	for _, c := range "jkqvwxyz" {
		r.BonusTemplate[c-'a'] = 0
	}
	return r
}

// Validate checks the rules against their allowed ranges.
func (r Rules) Validate() error {
	if r.MaxLives < 1 {
		return fmt.Errorf("maxLives must be at least 1, got %d", r.MaxLives)
	}
	if r.StartingLives < 1 || r.StartingLives > r.MaxLives {
		return fmt.Errorf("startingLives must be in [1, maxLives], got %d", r.StartingLives)
	}
	for i, n := range r.BonusTemplate {
		if n < 0 {
			return fmt.Errorf("bonusTemplate[%d] must not be negative, got %d", i, n)
		}
	}
	if r.MinTurnDuration < 1 {
		return fmt.Errorf("minTurnDuration must be at least 1 second, got %d", r.MinTurnDuration)
	}
	if r.MinWordsPerPrompt < 1 {
		return fmt.Errorf("minWordsPerPrompt must be at least 1, got %d", r.MinWordsPerPrompt)
	}
	return nil
}
