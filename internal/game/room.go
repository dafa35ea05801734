package game

import (
	"math/rand"
	"strings"
	"time"

	"ludo/internal/model"
)

const (
	MinPlayers = 2
	MaxPlayers = 4

	maxRoomNameLen   = 30
	maxPlayerNameLen = 20
)

// NewRoom builds a room in the waiting state. The id comes from the manager.
func NewRoom(id, name, createdBy string, maxPlayers int, private bool) *model.Room {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		maxPlayers = MaxPlayers
	}
	name = strings.TrimSpace(name)
	if len(name) > maxRoomNameLen {
		name = name[:maxRoomNameLen]
	}
	return &model.Room{
		ID:         id,
		Name:       name,
		CreatedBy:  createdBy,
		MaxPlayers: maxPlayers,
		IsPrivate:  private,
		GameState:  model.StateWaiting,
		Players:    make([]*model.Player, 0, maxPlayers),
	}
}

// AddPlayer seats a new player, assigning the first free color in the fixed
// red/blue/green/yellow order. Joining a started game is rejected.
func AddPlayer(r *model.Room, id, name string) (*model.Player, error) {
	if r.GameState == model.StatePlaying || r.GameState == model.StateFinished {
		return nil, ErrGameNotActive
	}
	if r.IsFull() {
		return nil, ErrRoomFull
	}
	name = strings.TrimSpace(name)
	if len(name) > maxPlayerNameLen {
		name = name[:maxPlayerNameLen]
	}
	var color model.Color
	for _, c := range model.Colors {
		if r.PlayerByColor(c) == nil {
			color = c
			break
		}
	}
	p := model.NewPlayer(id, name, color)
	r.Players = append(r.Players, p)
	if r.GameState == model.StateWaiting && len(r.Players) >= MinPlayers {
		r.GameState = model.StateReady
	}
	return p, nil
}

// RemovePlayer frees a seat. Mid-game leaves are not removals: the player
// keeps their turn slot until the room finishes (the timers skip them).
func RemovePlayer(r *model.Room, id string) bool {
	if r.GameState == model.StatePlaying {
		return false
	}
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			if r.GameState == model.StateReady && len(r.Players) < MinPlayers {
				r.GameState = model.StateWaiting
			}
			return true
		}
	}
	return false
}

// AllReady reports whether the room can leave the lobby phase.
func AllReady(r *model.Room) bool {
	if len(r.Players) < MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// StartGame fixes the turn order to join order, resets every token and
// score, and starts both clocks. First color in the order moves first.
func StartGame(r *model.Room) {
	r.GameState = model.StatePlaying
	r.TurnOrder = make([]model.Color, 0, len(r.Players))
	for _, p := range r.Players {
		r.TurnOrder = append(r.TurnOrder, p.Color)
		for i := range p.Tokens {
			p.Tokens[i] = model.NewToken(i, p.Color)
		}
		p.Captures = 0
		p.CaptureScore = 0
		p.TurnsPlayed = 0
	}
	r.CurrentTurn = r.TurnOrder[0]
	r.DiceValue = 0
	r.DiceRolled = false
	r.ConsecutiveSixes = 0
	r.Winner = ""
	r.WinCondition = ""
	now := time.Now()
	r.GameStartedAt = now
	r.TurnStartedAt = now
}

// NextTurn advances round-robin through the fixed turn order, resets the
// six counter and restarts the turn clock.
func NextTurn(r *model.Room) model.Color {
	for i, c := range r.TurnOrder {
		if c == r.CurrentTurn {
			r.CurrentTurn = r.TurnOrder[(i+1)%len(r.TurnOrder)]
			break
		}
	}
	r.ConsecutiveSixes = 0
	r.DiceRolled = false
	r.TurnStartedAt = time.Now()
	return r.CurrentTurn
}

// RollDice produces the roll and updates the consecutive-six counter. The
// turn-ownership and once-per-turn checks belong to the caller.
func RollDice(r *model.Room) int {
	r.DiceValue = rand.Intn(6) + 1
	if r.DiceValue == 6 {
		r.ConsecutiveSixes++
	} else {
		r.ConsecutiveSixes = 0
	}
	r.DiceRolled = true
	return r.DiceValue
}

// FinishGame is the terminal transition; it is never undone.
func FinishGame(r *model.Room, winnerID, condition string) {
	r.GameState = model.StateFinished
	r.Winner = winnerID
	r.WinCondition = condition
}

// CheckTimeUp finishes the room once the game clock has elapsed. The
// winner is the leaderboard head: score, then captures, then join order.
func CheckTimeUp(r *model.Room) bool {
	if r.GameState != model.StatePlaying || r.GameTimeRemaining() > 0 {
		return false
	}
	board := Leaderboard(r)
	winnerID := ""
	if len(board) > 0 {
		winnerID = board[0].PlayerID
	}
	FinishGame(r, winnerID, model.WinTimeUp)
	return true
}
