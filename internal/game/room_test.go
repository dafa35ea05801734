package game

import (
	"testing"
	"time"

	"ludo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayerAssignsColorsInJoinOrder(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)

	for i, name := range []string{"a", "b", "c", "d"} {
		p, err := AddPlayer(r, name, name)
		require.NoError(t, err)
		assert.Equal(t, model.Colors[i], p.Color)
	}

	_, err := AddPlayer(r, "e", "e")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestRoomBecomesReadyAtTwoPlayers(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	assert.Equal(t, model.StateWaiting, r.GameState)

	AddPlayer(r, "a", "a")
	assert.Equal(t, model.StateWaiting, r.GameState)

	AddPlayer(r, "b", "b")
	assert.Equal(t, model.StateReady, r.GameState)
}

func TestAddPlayerRejectedOnceStarted(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	StartGame(r)

	_, err := AddPlayer(r, "c", "c")
	assert.ErrorIs(t, err, ErrGameNotActive)
}

func TestRemovePlayerDropsRoomBackToWaiting(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	require.Equal(t, model.StateReady, r.GameState)

	assert.True(t, RemovePlayer(r, "b"))
	assert.Equal(t, model.StateWaiting, r.GameState)
	assert.Len(t, r.Players, 1)

	// mid-game removals are refused, the seat is kept
	AddPlayer(r, "b", "b")
	StartGame(r)
	assert.False(t, RemovePlayer(r, "a"))
	assert.Len(t, r.Players, 2)
}

func TestStartGameFixesTurnOrderToJoinOrder(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	AddPlayer(r, "c", "c")
	StartGame(r)

	assert.Equal(t, model.StatePlaying, r.GameState)
	assert.Equal(t, []model.Color{model.Red, model.Blue, model.Green}, r.TurnOrder)
	assert.Equal(t, model.Red, r.CurrentTurn)
	assert.False(t, r.GameStartedAt.IsZero())
	assert.False(t, r.TurnStartedAt.IsZero())

	for _, p := range r.Players {
		assert.Equal(t, 0, p.TotalScore())
		for i := range p.Tokens {
			assert.Equal(t, model.ZoneBase, p.Tokens[i].Zone)
		}
	}
}

func TestNextTurnRoundRobin(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	AddPlayer(r, "c", "c")
	StartGame(r)

	r.ConsecutiveSixes = 2
	r.DiceRolled = true

	assert.Equal(t, model.Blue, NextTurn(r))
	assert.Equal(t, 0, r.ConsecutiveSixes)
	assert.False(t, r.DiceRolled)
	assert.Equal(t, model.Green, NextTurn(r))
	assert.Equal(t, model.Red, NextTurn(r), "order wraps around")
}

func TestRollDiceRangeAndSixCounting(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)

	prevSixes := 0
	for i := 0; i < 200; i++ {
		v := RollDice(r)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
		require.True(t, r.DiceRolled)
		if v == 6 {
			require.Equal(t, prevSixes+1, r.ConsecutiveSixes)
		} else {
			require.Equal(t, 0, r.ConsecutiveSixes)
		}
		prevSixes = r.ConsecutiveSixes
		r.DiceRolled = false
	}
}

func TestCheckTimeUp(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	StartGame(r)

	assert.False(t, CheckTimeUp(r), "clock still running")

	r.Players[0].Tokens[0].MoveToTrack(16)
	r.Players[0].Tokens[0].Steps = 12
	r.Players[1].Tokens[0].MoveToTrack(55)
	r.Players[1].Tokens[0].Steps = 30

	r.GameStartedAt = time.Now().Add(-model.GameDuration - time.Second)
	assert.True(t, CheckTimeUp(r))
	assert.Equal(t, model.StateFinished, r.GameState)
	assert.Equal(t, "b", r.Winner)
	assert.Equal(t, model.WinTimeUp, r.WinCondition)
}

func TestCheckTimeUpTieBreaks(t *testing.T) {
	setup := func() *model.Room {
		r := NewRoom("ROOM1", "test", "creator", 4, false)
		AddPlayer(r, "a", "a")
		AddPlayer(r, "b", "b")
		StartGame(r)
		r.GameStartedAt = time.Now().Add(-model.GameDuration - time.Second)
		return r
	}

	t.Run("equal scores fall back to captures", func(t *testing.T) {
		r := setup()
		r.Players[0].CaptureScore = 20
		r.Players[0].Captures = 1
		r.Players[1].CaptureScore = 20
		r.Players[1].Captures = 3

		require.True(t, CheckTimeUp(r))
		assert.Equal(t, "b", r.Winner)
	})

	t.Run("full tie goes to the earliest joiner", func(t *testing.T) {
		r := setup()
		r.Players[0].CaptureScore = 20
		r.Players[0].Captures = 2
		r.Players[1].CaptureScore = 20
		r.Players[1].Captures = 2

		require.True(t, CheckTimeUp(r))
		assert.Equal(t, "a", r.Winner)
	})
}

func TestHandleReadyStartsGame(t *testing.T) {
	m := newTestManager(t)
	r := m.CreateRoom("test room", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")

	assert.ErrorIs(t, m.HandleReady(r, "ghost", true), ErrPlayerNotFound)

	require.NoError(t, m.HandleReady(r, "a", true))
	assert.Equal(t, model.StateReady, r.GameState, "one ready player is not enough")

	require.NoError(t, m.HandleReady(r, "b", true))
	assert.Equal(t, model.StatePlaying, r.GameState)
	assert.Equal(t, model.Red, r.CurrentTurn)

	assert.ErrorIs(t, m.HandleReady(r, "a", true), ErrGameNotActive)
}

func TestFinishGameIsTerminal(t *testing.T) {
	r := NewRoom("ROOM1", "test", "creator", 4, false)
	AddPlayer(r, "a", "a")
	AddPlayer(r, "b", "b")
	StartGame(r)

	FinishGame(r, "a", model.WinAllHome)
	assert.Equal(t, model.StateFinished, r.GameState)

	// time expiry after the fact must not rewrite the result
	r.GameStartedAt = time.Now().Add(-model.GameDuration - time.Second)
	assert.False(t, CheckTimeUp(r))
	assert.Equal(t, "a", r.Winner)
	assert.Equal(t, model.WinAllHome, r.WinCondition)
}

func TestHandleDeleteRoomCreatorOnly(t *testing.T) {
	m := newTestManager(t)
	r := m.CreateRoom("doomed", "creator-id", 4, false)
	AddPlayer(r, "id-a", "alice")

	assert.ErrorIs(t, m.HandleDeleteRoom(r, "id-a"), ErrNotCreator)
	assert.ErrorIs(t, m.HandleDeleteRoom(r, ""), ErrNotCreator)
	assert.NoError(t, m.HandleDeleteRoom(r, "creator-id"))
}

func TestDeleteRoomRemovesRoomAndSnapshot(t *testing.T) {
	m := newTestManager(t)
	r := m.CreateRoom("doomed", "creator-id", 4, false)

	m.DeleteRoom(r.ID)

	_, exists := m.GetRoom(r.ID)
	assert.False(t, exists)
	rooms, err := m.Store.LoadRooms()
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestCreateRoomGeneratesUniqueCodes(t *testing.T) {
	m := newTestManager(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		r := m.CreateRoom("", "creator", 4, false)
		assert.Len(t, r.ID, 8)
		assert.False(t, seen[r.ID])
		assert.NotEmpty(t, r.Name)
		seen[r.ID] = true
	}
}
