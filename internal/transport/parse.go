package transport

import (
	"encoding/json"

	"fuseparty/internal/game"
)

// Inbound payloads are untrusted. Each command has a parser that
// returns nil on any schema violation; the router acks "Invalid
// payload." and changes no state. The parsers are pure functions.

type joinRoomCmd struct {
	RoomCode string
	PlayerID string
	Name     string
}

func parseJoinRoom(data json.RawMessage) *joinRoomCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
		PlayerID *string `json:"playerId"`
		Name     *string `json:"name"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.PlayerID == nil || *p.PlayerID == "" || p.Name == nil || *p.Name == "" {
		return nil
	}
	return &joinRoomCmd{RoomCode: *p.RoomCode, PlayerID: *p.PlayerID, Name: *p.Name}
}

type roomPlayerCmd struct {
	RoomCode string
	PlayerID string
}

func parseRoomPlayer(data json.RawMessage) *roomPlayerCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
		PlayerID *string `json:"playerId"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.PlayerID == nil || *p.PlayerID == "" {
		return nil
	}
	return &roomPlayerCmd{RoomCode: *p.RoomCode, PlayerID: *p.PlayerID}
}

type setSeatedCmd struct {
	RoomCode string
	PlayerID string
	Seated   bool
}

func parseSetSeated(data json.RawMessage) *setSeatedCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
		PlayerID *string `json:"playerId"`
		Seated   *bool   `json:"seated"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.PlayerID == nil || *p.PlayerID == "" || p.Seated == nil {
		return nil
	}
	return &setSeatedCmd{RoomCode: *p.RoomCode, PlayerID: *p.PlayerID, Seated: *p.Seated}
}

type updateRulesCmd struct {
	RoomCode string
	Rules    game.Rules
}

func parseUpdateRules(data json.RawMessage) *updateRulesCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
		Rules    *struct {
			MaxLives          *int  `json:"maxLives"`
			StartingLives     *int  `json:"startingLives"`
			BonusTemplate     []int `json:"bonusTemplate"`
			MinTurnDuration   *int  `json:"minTurnDuration"`
			MinWordsPerPrompt *int  `json:"minWordsPerPrompt"`
		} `json:"rules"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.Rules == nil {
		return nil
	}
	r := p.Rules
	if r.MaxLives == nil || r.StartingLives == nil || r.MinTurnDuration == nil || r.MinWordsPerPrompt == nil {
		return nil
	}
	if len(r.BonusTemplate) != 26 {
		return nil
	}
	rules := game.Rules{
		MaxLives:          *r.MaxLives,
		StartingLives:     *r.StartingLives,
		MinTurnDuration:   *r.MinTurnDuration,
		MinWordsPerPrompt: *r.MinWordsPerPrompt,
	}
	copy(rules.BonusTemplate[:], r.BonusTemplate)
	return &updateRulesCmd{RoomCode: *p.RoomCode, Rules: rules}
}

type startGameCmd struct {
	RoomCode string
}

func parseStartGame(data json.RawMessage) *startGameCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" {
		return nil
	}
	return &startGameCmd{RoomCode: *p.RoomCode}
}

type playerTypingCmd struct {
	RoomCode string
	PlayerID string
	Input    string
}

func parsePlayerTyping(data json.RawMessage) *playerTypingCmd {
	var p struct {
		RoomCode *string `json:"roomCode"`
		PlayerID *string `json:"playerId"`
		Input    *string `json:"input"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.PlayerID == nil || *p.PlayerID == "" || p.Input == nil {
		return nil
	}
	return &playerTypingCmd{RoomCode: *p.RoomCode, PlayerID: *p.PlayerID, Input: *p.Input}
}

type submitWordCmd struct {
	RoomCode       string
	PlayerID       string
	Word           string
	ClientActionID string
}

func parseSubmitWord(data json.RawMessage) *submitWordCmd {
	var p struct {
		RoomCode       *string `json:"roomCode"`
		PlayerID       *string `json:"playerId"`
		Word           *string `json:"word"`
		ClientActionID string  `json:"clientActionId"`
	}
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.RoomCode == nil || *p.RoomCode == "" || p.PlayerID == nil || *p.PlayerID == "" || p.Word == nil {
		return nil
	}
	return &submitWordCmd{
		RoomCode:       *p.RoomCode,
		PlayerID:       *p.PlayerID,
		Word:           *p.Word,
		ClientActionID: p.ClientActionID,
	}
}
