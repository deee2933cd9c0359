package game

import "time"

// Player is a member of a room. Players are created on join and kept
// while disconnected so the same ID can reconnect into a running game.
type Player struct {
	ID           string
	Name         string
	IsSeated     bool
	IsConnected  bool
	IsEliminated bool
	Lives        int
	Bonus        BonusProgress
	JoinedAt     time.Time
}

// NewPlayer creates a connected, unseated player with the starting
// lives and bonus quota from the room rules.
func NewPlayer(id, name string, rules Rules) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		IsConnected: true,
		Lives:       rules.StartingLives,
		Bonus:       NewBonusProgress(rules.BonusTemplate),
		JoinedAt:    time.Now(),
	}
}

// RoomPlayerView is the lobby-facing snapshot of a player.
type RoomPlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsSeated    bool   `json:"isSeated"`
	IsConnected bool   `json:"isConnected"`
}

// GamePlayerView is the in-game snapshot of a player.
type GamePlayerView struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Lives         int               `json:"lives"`
	IsEliminated  bool              `json:"isEliminated"`
	IsConnected   bool              `json:"isConnected"`
	BonusProgress BonusProgressView `json:"bonusProgress"`
}

// BonusProgressView pairs the remaining quota with the template it
// was derived from so clients can render completion.
type BonusProgressView struct {
	Remaining []int `json:"remaining"`
	Total     []int `json:"total"`
}

func (p *Player) roomView() RoomPlayerView {
	return RoomPlayerView{
		ID:          p.ID,
		Name:        p.Name,
		IsSeated:    p.IsSeated,
		IsConnected: p.IsConnected,
	}
}

func (p *Player) gameView(template [26]int) GamePlayerView {
	total := make([]int, 26)
	copy(total, template[:])
	return GamePlayerView{
		ID:            p.ID,
		Name:          p.Name,
		Lives:         p.Lives,
		IsEliminated:  p.IsEliminated,
		IsConnected:   p.IsConnected,
		BonusProgress: BonusProgressView{Remaining: p.Bonus.Remaining(), Total: total},
	}
}
