package game

import (
	"fmt"
	"strings"
	"time"

	"ludo/internal/model"

	"github.com/rs/zerolog/log"
)

type CapturedToken struct {
	PlayerID   string      `json:"playerId"`
	Color      model.Color `json:"color"`
	TokenIndex int         `json:"tokenIndex"`
	Score      int         `json:"score"` // the victim's score at capture time, credited to the striker
}

type MoveResult struct {
	TokenIndex  int             `json:"tokenIndex"`
	Steps       int             `json:"steps"`
	FromBase    bool            `json:"fromBase"`
	ReachedHome bool            `json:"reachedHome"`
	BonusPoints int             `json:"bonusPoints"`
	Captured    []CapturedToken `json:"captured,omitempty"`
}

// ExecuteMove validates and applies a single token move. On error nothing
// has been mutated. The caller holds the room mutex.
func ExecuteMove(r *model.Room, p *model.Player, tokenIndex, diceValue int) (*MoveResult, error) {
	if tokenIndex < 0 || tokenIndex >= len(p.Tokens) {
		return nil, fmt.Errorf("%w: no such token", ErrInvalidMove)
	}
	t := &p.Tokens[tokenIndex]
	if legality := CheckMove(t, diceValue); !legality.Legal {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, legality.Reason)
	}

	res := &MoveResult{TokenIndex: tokenIndex, Steps: diceValue}

	if t.Zone == model.ZoneBase {
		// Leaving base is the whole move; the roll is consumed without
		// advancing along the ring.
		t.MoveToTrack(StartPosition(t.Color))
		res.FromBase = true
	} else {
		t.Advance(diceValue)
		if t.TrackPosition >= HomePosition(t.Color) {
			t.ReachHome()
			res.ReachedHome = true
			res.BonusPoints = model.HomeBonus
		}
	}

	if t.Zone == model.ZoneTrack {
		res.Captured = captureAt(r, p, t.TrackPosition)
	}

	t.Steps += diceValue
	return res, nil
}

// captureAt evicts every opposing token sitting on the destination ring
// cell. Home stretches are private, nothing is captured there.
func captureAt(r *model.Room, striker *model.Player, position int) []CapturedToken {
	if position >= SharedTrackSize {
		return nil
	}
	var captured []CapturedToken
	for _, victim := range r.Players {
		if victim.ID == striker.ID {
			continue
		}
		for i := range victim.Tokens {
			vt := &victim.Tokens[i]
			if vt.Zone != model.ZoneTrack || vt.TrackPosition != position {
				continue
			}
			taken := vt.Score()
			vt.Reset()
			striker.CaptureScore += taken
			striker.Captures++
			captured = append(captured, CapturedToken{
				PlayerID:   victim.ID,
				Color:      victim.Color,
				TokenIndex: i,
				Score:      taken,
			})
		}
	}
	return captured
}

// HandleReady processes a player:ready intent and starts the game once
// every seated player is ready. The caller holds the room mutex.
func (m *Manager) HandleReady(r *model.Room, playerID string, ready bool) error {
	if r.GameState != model.StateWaiting && r.GameState != model.StateReady {
		return ErrGameNotActive
	}
	p := r.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Ready = ready

	if AllReady(r) {
		StartGame(r)
		first := string(r.CurrentTurn)
		m.broadcast(r, model.Message{Type: "game:start", Payload: map[string]interface{}{
			"message": "Game started! " + strings.ToUpper(first[:1]) + first[1:] + " player goes first.",
		}})
		m.BroadcastScores(r)
		log.Info().Str("room", r.ID).Int("players", len(r.Players)).Msg("game started")
	}
	m.BroadcastRoomState(r)
	return nil
}

// HandleDeleteRoom processes a room:delete intent: only the creator may
// dissolve a room. It announces the dissolution to everyone seated; the
// caller holds the room mutex and removes the room from the manager and
// the store afterwards, outside the mutex.
func (m *Manager) HandleDeleteRoom(r *model.Room, playerID string) error {
	if playerID == "" || playerID != r.CreatedBy {
		return ErrNotCreator
	}
	m.broadcast(r, model.Message{Type: "room:deleted", Payload: map[string]string{"roomId": r.ID}})
	log.Info().Str("room", r.ID).Msg("room deleted by creator")
	return nil
}

// HandleRoll processes a game:roll intent. The caller holds the room mutex.
func (m *Manager) HandleRoll(r *model.Room, playerID string) error {
	if r.GameState != model.StatePlaying {
		return ErrGameNotActive
	}
	p := r.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Color != r.CurrentTurn {
		return ErrNotYourTurn
	}
	if r.DiceRolled {
		return ErrAlreadyRolled
	}

	diceValue := RollDice(r)
	moves := LegalMoves(p, diceValue)

	log.Debug().Str("room", r.ID).Str("player", p.Name).Int("dice", diceValue).
		Int("legalMoves", len(moves)).Msg("dice rolled")

	m.broadcast(r, model.Message{Type: "game:roll", Payload: map[string]interface{}{
		"playerId":   p.ID,
		"diceValue":  diceValue,
		"legalMoves": moves,
		"canMove":    len(moves) > 0,
	}})

	if len(moves) == 0 {
		// Nothing to move: the roll is spent. A six below the third still
		// buys a re-roll, otherwise the turn passes right away.
		r.DiceRolled = false
		if !ShouldGrantExtraTurn(diceValue, r.ConsecutiveSixes, nil) {
			NextTurn(r)
			m.BroadcastTurn(r)
		}
	}
	m.Store.PersistRoom(r)
	return nil
}

// HandleMove processes a game:move intent: legality, execution, scoring,
// win check and turn progression. The caller holds the room mutex.
func (m *Manager) HandleMove(r *model.Room, playerID string, tokenIndex int) error {
	if r.GameState != model.StatePlaying {
		return ErrGameNotActive
	}
	p := r.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Color != r.CurrentTurn {
		return ErrNotYourTurn
	}
	if !r.DiceRolled {
		return ErrNotRolled
	}

	res, err := ExecuteMove(r, p, tokenIndex, r.DiceValue)
	if err != nil {
		return err
	}
	p.TurnsPlayed++
	r.DiceRolled = false

	if err := ValidateRoom(r); err != nil {
		// Corrupt state is fatal for the game: finishing with no winner
		// beats propagating broken scores.
		log.Error().Str("room", r.ID).Err(err).Msg("room state invariant violated")
		FinishGame(r, "", model.WinInconsistent)
		m.BroadcastRoomState(r)
		return nil
	}

	log.Info().Str("room", r.ID).Str("player", p.Name).Int("token", tokenIndex).
		Bool("reachedHome", res.ReachedHome).Int("captures", len(res.Captured)).
		Msg("move applied")

	m.broadcast(r, model.Message{Type: "game:move", Payload: map[string]interface{}{
		"playerId":   p.ID,
		"tokenIndex": tokenIndex,
		"moveResult": res,
		"gameState":  r.GameState,
	}})
	m.BroadcastScores(r)

	if p.HasWon() {
		FinishGame(r, p.ID, model.WinAllHome)
		m.FinishBroadcast(r)
		return nil
	}

	if ShouldGrantExtraTurn(r.DiceValue, r.ConsecutiveSixes, res) {
		// Same player again, with a fresh turn clock. The dice latch is
		// already open.
		r.TurnStartedAt = time.Now()
		m.BroadcastTurn(r)
	} else {
		NextTurn(r)
		m.BroadcastTurn(r)
	}
	m.Store.PersistRoom(r)
	return nil
}
