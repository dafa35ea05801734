package model

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
)

// Colors is the fixed seat assignment order: join order = color order = turn order.
var Colors = [4]Color{Red, Blue, Green, Yellow}

type Zone string

const (
	ZoneBase  Zone = "base"
	ZoneTrack Zone = "track"
	ZoneHome  Zone = "home"
)

type GameState string

const (
	StateWaiting  GameState = "waiting"
	StateReady    GameState = "ready"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

const (
	// HomeBonus is awarded once when a token reaches its home slot.
	HomeBonus = 56

	GameDuration = 10 * time.Minute
	TurnDuration = 15 * time.Second
)

// Win conditions recorded on the terminal transition into StateFinished.
const (
	WinAllHome      = "all_home"
	WinTimeUp       = "time_up"
	WinInconsistent = "inconsistent_state"
)

type Token struct {
	Index         int   `json:"index"`
	Color         Color `json:"color"`
	Zone          Zone  `json:"zone"`
	TrackPosition int   `json:"trackPosition"` // -1 while not on the track
	Steps         int   `json:"steps"`
}

func NewToken(index int, color Color) Token {
	return Token{Index: index, Color: color, Zone: ZoneBase, TrackPosition: -1}
}

// Score is derived on read: accumulated steps plus the home bonus once the
// token sits in its home slot. Never stored, so it cannot drift and the
// bonus cannot be applied twice.
func (t *Token) Score() int {
	if t.Zone == ZoneHome {
		return t.Steps + HomeBonus
	}
	return t.Steps
}

// The four transitions below do no validation; legality is decided by the
// move engine before they are invoked.

func (t *Token) MoveToTrack(startPosition int) {
	t.Zone = ZoneTrack
	t.TrackPosition = startPosition
}

func (t *Token) Advance(steps int) {
	t.TrackPosition += steps
}

func (t *Token) ReachHome() {
	t.Zone = ZoneHome
}

// Reset sends a captured token back to base and zeroes everything it earned.
func (t *Token) Reset() {
	t.Zone = ZoneBase
	t.TrackPosition = -1
	t.Steps = 0
}

type Player struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Color        Color           `json:"color"`
	Conn         *websocket.Conn `json:"-"`
	Tokens       [4]Token        `json:"tokens"`
	Captures     int             `json:"captures"`
	CaptureScore int             `json:"captureScore"` // victims' scores credited on capture
	Ready        bool            `json:"ready"`
	IsOnline     bool            `json:"isOnline"`
	TurnsPlayed  int             `json:"turnsPlayed"`
}

func NewPlayer(id, name string, color Color) *Player {
	p := &Player{ID: id, Name: name, Color: color, IsOnline: true}
	for i := range p.Tokens {
		p.Tokens[i] = NewToken(i, color)
	}
	return p
}

// TotalScore is recomputed from the tokens on every read.
func (p *Player) TotalScore() int {
	total := p.CaptureScore
	for i := range p.Tokens {
		total += p.Tokens[i].Score()
	}
	return total
}

func (p *Player) TokensHome() int {
	n := 0
	for i := range p.Tokens {
		if p.Tokens[i].Zone == ZoneHome {
			n++
		}
	}
	return n
}

func (p *Player) HasWon() bool {
	return p.TokensHome() == len(p.Tokens)
}

type Room struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedBy        string    `json:"createdBy"`
	MaxPlayers       int       `json:"maxPlayers"`
	IsPrivate        bool      `json:"isPrivate"`
	Players          []*Player `json:"players"` // insertion order = join order = turn order
	GameState        GameState `json:"gameState"`
	TurnOrder        []Color   `json:"turnOrder"`
	CurrentTurn      Color     `json:"currentTurn"`
	DiceValue        int       `json:"diceValue"`
	DiceRolled       bool      `json:"diceRolled"` // current turn already rolled and owes a move
	ConsecutiveSixes int       `json:"consecutiveSixes"` // includes the current unspent roll, so it reads 3 between a third six and the turn change
	GameStartedAt    time.Time `json:"gameStartedAt"`
	TurnStartedAt    time.Time `json:"turnStartedAt"`
	Winner           string    `json:"winner"`
	WinCondition     string    `json:"winCondition"`

	Mutex sync.Mutex `json:"-"`
}

func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) PlayerByColor(c Color) *Player {
	for _, p := range r.Players {
		if p.Color == c {
			return p
		}
	}
	return nil
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

func (r *Room) GameTimeRemaining() time.Duration {
	if r.GameStartedAt.IsZero() {
		return GameDuration
	}
	remaining := GameDuration - time.Since(r.GameStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Room) TurnTimeRemaining() time.Duration {
	if r.TurnStartedAt.IsZero() {
		return TurnDuration
	}
	remaining := TurnDuration - time.Since(r.TurnStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// --- Wire format ---

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Action struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Ready      bool   `json:"ready"`
	TokenIndex int    `json:"tokenIndex"`
}

type RoomSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerName   string    `json:"ownerName"`
	PlayerCount int       `json:"playerCount"`
	MaxPlayers  int       `json:"maxPlayers"`
	GameState   GameState `json:"gameState"`
}

type PlayerStat struct {
	Name       string `json:"name"`
	TotalGames int    `json:"totalGames"`
	TotalScore int    `json:"totalScore"`
	TotalWins  int    `json:"totalWins"`
}
