package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJoinRoom(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{"valid", `{"roomCode":"ABCD","playerId":"p1","name":"Alice"}`, true},
		{"missing room", `{"playerId":"p1","name":"Alice"}`, false},
		{"empty player", `{"roomCode":"ABCD","playerId":"","name":"Alice"}`, false},
		{"missing name", `{"roomCode":"ABCD","playerId":"p1"}`, false},
		{"wrong type", `{"roomCode":4,"playerId":"p1","name":"Alice"}`, false},
		{"not an object", `"hello"`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parseJoinRoom(json.RawMessage(tt.data))
			if tt.ok {
				require.NotNil(t, cmd)
				assert.Equal(t, "ABCD", cmd.RoomCode)
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestParseSetSeated(t *testing.T) {
	cmd := parseSetSeated(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1","seated":false}`))
	require.NotNil(t, cmd)
	assert.False(t, cmd.Seated)

	// seated must be present, not defaulted.
	assert.Nil(t, parseSetSeated(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1"}`)))
	assert.Nil(t, parseSetSeated(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1","seated":"yes"}`)))
}

func TestParseUpdateRules(t *testing.T) {
	valid := `{"roomCode":"ABCD","rules":{"maxLives":3,"startingLives":2,` +
		`"bonusTemplate":[1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1],` +
		`"minTurnDuration":5,"minWordsPerPrompt":100}}`
	cmd := parseUpdateRules(json.RawMessage(valid))
	require.NotNil(t, cmd)
	assert.Equal(t, 3, cmd.Rules.MaxLives)
	assert.Equal(t, 1, cmd.Rules.BonusTemplate[25])

	short := `{"roomCode":"ABCD","rules":{"maxLives":3,"startingLives":2,` +
		`"bonusTemplate":[1,1,1],"minTurnDuration":5,"minWordsPerPrompt":100}}`
	assert.Nil(t, parseUpdateRules(json.RawMessage(short)))

	assert.Nil(t, parseUpdateRules(json.RawMessage(`{"roomCode":"ABCD"}`)))
	assert.Nil(t, parseUpdateRules(json.RawMessage(`{"rules":{}}`)))
}

func TestParseSubmitWord(t *testing.T) {
	cmd := parseSubmitWord(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1","word":"car","clientActionId":"a1"}`))
	require.NotNil(t, cmd)
	assert.Equal(t, "car", cmd.Word)
	assert.Equal(t, "a1", cmd.ClientActionID)

	// clientActionId is optional.
	cmd = parseSubmitWord(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1","word":"car"}`))
	require.NotNil(t, cmd)
	assert.Empty(t, cmd.ClientActionID)

	assert.Nil(t, parseSubmitWord(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1"}`)))
}

func TestParsePlayerTyping(t *testing.T) {
	cmd := parsePlayerTyping(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1","input":""}`))
	require.NotNil(t, cmd)
	assert.Empty(t, cmd.Input)

	assert.Nil(t, parsePlayerTyping(json.RawMessage(`{"roomCode":"ABCD","playerId":"p1"}`)))
}

func TestParseStartGame(t *testing.T) {
	cmd := parseStartGame(json.RawMessage(`{"roomCode":"ABCD"}`))
	require.NotNil(t, cmd)
	assert.Equal(t, "ABCD", cmd.RoomCode)

	assert.Nil(t, parseStartGame(json.RawMessage(`{}`)))
	assert.Nil(t, parseStartGame(json.RawMessage(`{"roomCode":""}`)))
}
