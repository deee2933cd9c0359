package game

// Outbound event names. These are the wire-level event identifiers the
// transport broadcasts on a room's topic.
const (
	EventPlayersUpdated    = "players-updated"
	EventRoomRulesUpdated  = "room-rules-updated"
	EventCountdownStarted  = "game-countdown-started"
	EventGameStarted       = "game-started"
	EventTurnStarted       = "turn-started"
	EventWordAccepted      = "word-accepted"
	EventPlayerUpdated     = "player-updated"
	EventPlayerTyping      = "player-typing-update"
	EventGameEnded         = "game-ended"
)

// Transport is the outbound sink the room engine emits events through.
// Broadcast and SendTo must not block; queueing is the transport's job.
type Transport interface {
	Broadcast(roomCode, event string, payload any)
	SendTo(socketID, event string, payload any)
}

// Dictionary answers word validity and supplies turn fragments. It is
// read-only after load and safe for concurrent use across rooms.
type Dictionary interface {
	IsValid(word string) bool
	SampleFragment(minCount int) (string, error)
}

type PlayersUpdatedPayload struct {
	LeaderID string           `json:"leaderId,omitempty"`
	Players  []RoomPlayerView `json:"players"`
}

type RoomRulesUpdatedPayload struct {
	RoomCode string `json:"roomCode"`
	Rules    Rules  `json:"rules"`
}

type CountdownStartedPayload struct {
	Deadline int64 `json:"deadline"` // epoch ms
}

type GameStartedPayload struct {
	RoomCode      string           `json:"roomCode"`
	Fragment      string           `json:"fragment"`
	BombDuration  int64            `json:"bombDuration"` // ms
	CurrentPlayer *string          `json:"currentPlayer"`
	LeaderID      *string          `json:"leaderId"`
	Players       []GamePlayerView `json:"players"`
}

type TurnStartedPayload struct {
	PlayerID     *string          `json:"playerId"`
	Fragment     string           `json:"fragment"`
	BombDuration int64            `json:"bombDuration"` // ms
	Players      []GamePlayerView `json:"players"`
}

type WordAcceptedPayload struct {
	PlayerID string `json:"playerId"`
	Word     string `json:"word"`
}

type PlayerUpdatedPayload struct {
	PlayerID string `json:"playerId"`
	Lives    int    `json:"lives"`
}

type PlayerTypingPayload struct {
	PlayerID string `json:"playerId"`
	Input    string `json:"input"`
}

type GameEndedPayload struct {
	WinnerID *string `json:"winnerId"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
