package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/genre-battle/internal/content"
)

func TestRoom_Standings_JoinOrderTieBreak(t *testing.T) {
	t.Parallel()

	r := &Room{
		Players: []*Player{
			{ID: "p1", Score: 50},
			{ID: "p2", Score: 80},
			{ID: "p3", Score: 50},
		},
	}

	standings := r.Standings()
	assert.Equal(t, PlayerID("p2"), standings[0].ID)
	// p1 and p3 are tied, the earlier joiner ranks first
	assert.Equal(t, PlayerID("p1"), standings[1].ID)
	assert.Equal(t, PlayerID("p3"), standings[2].ID)

	// Standings never mutates the roster order
	assert.Equal(t, PlayerID("p1"), r.Players[0].ID)
}

func TestRound_QuotaMetByAll(t *testing.T) {
	t.Parallel()

	players := []*Player{{ID: "p1"}, {ID: "p2"}}
	round := &Round{
		CorrectAnswers: []string{"Jazz", "Funk"},
		Selections:     map[PlayerID][]string{},
	}

	assert.False(t, round.QuotaMetByAll(players))

	round.Selections["p1"] = []string{"Jazz", "Funk"}
	assert.False(t, round.QuotaMetByAll(players))

	round.Selections["p2"] = []string{"Pop", "Metal"}
	assert.True(t, round.QuotaMetByAll(players))

	// An empty roster never counts as complete
	assert.False(t, round.QuotaMetByAll(nil))
}

func TestRound_ClaimedBy(t *testing.T) {
	t.Parallel()

	round := &Round{
		Selections: map[PlayerID][]string{
			"p1": {"Jazz"},
			"p2": {"Funk", "Pop"},
		},
	}

	owner, taken := round.ClaimedBy("Funk")
	assert.True(t, taken)
	assert.Equal(t, PlayerID("p2"), owner)

	_, taken = round.ClaimedBy("Metal")
	assert.False(t, taken)
}

func TestRoom_BeginRound(t *testing.T) {
	t.Parallel()

	r := newRoom("ABC234", "p1", "Alice", 3)
	r.Players = append(r.Players, &Player{ID: "p2", Name: "Bob"})
	r.Ready = map[PlayerID]bool{"p1": true, "p2": true}

	round := r.beginRound(&content.RoundContent{
		MediaID:        "m-1",
		Options:        []content.Option{{Label: "Jazz"}},
		CorrectAnswers: []string{"Jazz"},
	})

	assert.Equal(t, 0, round.Number)
	assert.Equal(t, StatusRoundInProgress, r.Status)
	assert.Equal(t, RoundSelecting, round.Status)
	assert.False(t, r.Ready["p1"])
	assert.False(t, r.Ready["p2"])
}

func TestGenerateRoomCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := generateRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(roomCodeChars, c), "unexpected char %q", c)
		}
		seen[code] = true
	}
	// 31^6 codes, 100 draws colliding down to a handful would mean a broken generator
	assert.Greater(t, len(seen), 90)
}
