package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenStartsInBase(t *testing.T) {
	tok := NewToken(2, Red)

	assert.Equal(t, 2, tok.Index)
	assert.Equal(t, ZoneBase, tok.Zone)
	assert.Equal(t, -1, tok.TrackPosition)
	assert.Equal(t, 0, tok.Steps)
	assert.Equal(t, 0, tok.Score())
}

func TestTokenTransitions(t *testing.T) {
	tok := NewToken(0, Blue)

	tok.MoveToTrack(55)
	assert.Equal(t, ZoneTrack, tok.Zone)
	assert.Equal(t, 55, tok.TrackPosition)

	tok.Advance(4)
	assert.Equal(t, 59, tok.TrackPosition)

	tok.Reset()
	assert.Equal(t, ZoneBase, tok.Zone)
	assert.Equal(t, -1, tok.TrackPosition)
	assert.Equal(t, 0, tok.Steps)
	assert.Equal(t, 0, tok.Score())
}

func TestTokenScoreDerivedFromSteps(t *testing.T) {
	tok := NewToken(0, Green)
	tok.MoveToTrack(42)
	tok.Steps = 12

	assert.Equal(t, 12, tok.Score())

	tok.ReachHome()
	assert.Equal(t, 12+HomeBonus, tok.Score())
}

func TestReachHomeIdempotent(t *testing.T) {
	tok := NewToken(1, Yellow)
	tok.MoveToTrack(29)
	tok.Steps = 62

	tok.ReachHome()
	first := tok.Score()
	tok.ReachHome()

	assert.Equal(t, first, tok.Score(), "home bonus must apply exactly once")
	assert.GreaterOrEqual(t, tok.Score(), HomeBonus)
}

func TestPlayerTotalScoreRecomputedFromTokens(t *testing.T) {
	p := NewPlayer("p1", "alice", Red)
	assert.Equal(t, 0, p.TotalScore())

	p.Tokens[0].MoveToTrack(16)
	p.Tokens[0].Steps = 10
	p.Tokens[1].MoveToTrack(16)
	p.Tokens[1].Steps = 3
	p.Tokens[1].ReachHome()
	p.CaptureScore = 7

	assert.Equal(t, 10+3+HomeBonus+7, p.TotalScore())
}

func TestPlayerHasWon(t *testing.T) {
	p := NewPlayer("p1", "bob", Blue)
	assert.False(t, p.HasWon())

	for i := range p.Tokens {
		p.Tokens[i].ReachHome()
	}
	assert.True(t, p.HasWon())
	assert.Equal(t, 4, p.TokensHome())
}

func TestRoomLookupsAndCapacity(t *testing.T) {
	r := &Room{MaxPlayers: 2, GameState: StateWaiting}
	r.Players = append(r.Players, NewPlayer("a", "a", Red), NewPlayer("b", "b", Blue))

	assert.True(t, r.IsFull())
	assert.Equal(t, "a", r.PlayerByID("a").ID)
	assert.Nil(t, r.PlayerByID("zz"))
	assert.Equal(t, "b", r.PlayerByColor(Blue).ID)
	assert.Nil(t, r.PlayerByColor(Green))
}

func TestTimeRemainingBeforeStart(t *testing.T) {
	r := &Room{}

	assert.Equal(t, GameDuration, r.GameTimeRemaining())
	assert.Equal(t, TurnDuration, r.TurnTimeRemaining())
}
