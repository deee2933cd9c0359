package game

import (
	"sync"
	"testing"
	"time"
)

// fakeTransport records every broadcast and exposes them on a channel
// so tests can wait for specific events.
type fakeTransport struct {
	mu     sync.Mutex
	events []emitted
	ch     chan emitted
}

type emitted struct {
	Room    string
	Event   string
	Payload any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{ch: make(chan emitted, 1024)}
}

func (t *fakeTransport) Broadcast(roomCode, event string, payload any) {
	e := emitted{Room: roomCode, Event: event, Payload: payload}
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
	select {
	case t.ch <- e:
	default:
	}
}

func (t *fakeTransport) SendTo(socketID, event string, payload any) {}

// waitFor pops broadcasts until one matches the event name, failing the
// test after the timeout.
func (t *fakeTransport) waitFor(tt *testing.T, event string, timeout time.Duration) emitted {
	tt.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case e := <-t.ch:
			if e.Event == event {
				return e
			}
		case <-deadline:
			tt.Fatalf("timed out waiting for %q", event)
			return emitted{}
		}
	}
}

// count returns how many broadcasts of the event were recorded.
func (t *fakeTransport) count(event string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// stubDict is a scripted dictionary: fragments come back in order, and
// every word is valid unless listed as invalid.
type stubDict struct {
	mu        sync.Mutex
	fragments []string
	idx       int
	invalid   map[string]bool
}

func newStubDict(fragments ...string) *stubDict {
	return &stubDict{fragments: fragments, invalid: make(map[string]bool)}
}

func (d *stubDict) IsValid(word string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.invalid[word]
}

func (d *stubDict) SampleFragment(minCount int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.fragments) == 0 {
		return "aa", nil
	}
	f := d.fragments[d.idx%len(d.fragments)]
	d.idx++
	return f, nil
}

// fastTimings keeps engine tests quick. MinTurnDuration still floors
// the bomb at one second, so tests that need a bomb fire use one-life
// rules and wait a little over a second.
func fastTimings() Timings {
	return Timings{
		Countdown:   20 * time.Millisecond,
		InitialBomb: 50 * time.Millisecond,
		EndGrace:    30 * time.Millisecond,
		DecayFactor: 1.0,
	}
}

func testRules() Rules {
	r := DefaultRules()
	r.MaxLives = 3
	r.StartingLives = 3
	r.MinTurnDuration = 1
	r.MinWordsPerPrompt = 1
	return r
}

// newTestRoom builds a room with a scripted dictionary and capturing
// transport, already populated with the given seated players.
func newTestRoom(t *testing.T, rules Rules, d Dictionary, players ...string) (*Room, *fakeTransport) {
	t.Helper()
	tr := newFakeTransport()
	room := NewRoom("TEST", rules, d, tr, fastTimings(), 64, nil)
	t.Cleanup(room.Close)
	for _, id := range players {
		if err := room.AddPlayer(id, id); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
		if err := room.SetSeated(id, true); err != nil {
			t.Fatalf("SetSeated(%s): %v", id, err)
		}
	}
	return room, tr
}

// startTestGame starts the game as the leader and waits for it to go
// active.
func startTestGame(t *testing.T, room *Room, tr *fakeTransport, leader string) GameStartedPayload {
	t.Helper()
	if err := room.StartGame(leader); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	tr.waitFor(t, EventCountdownStarted, 2*time.Second)
	e := tr.waitFor(t, EventGameStarted, 2*time.Second)
	return e.Payload.(GameStartedPayload)
}
