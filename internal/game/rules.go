package game

import (
	"ludo/internal/model"
)

// The board is a linear 0-91 abstraction: positions below SharedTrackSize
// form the ring every color travels, positions from SharedTrackSize up are
// the color-private home stretches. Stretches of different colors overlap
// numerically but are never shared, so captures only happen on the ring.
const SharedTrackSize = 72

// StartPosition is the ring cell a token enters when it leaves base.
func StartPosition(c model.Color) int {
	switch c {
	case model.Red:
		return 16
	case model.Blue:
		return 55
	case model.Green:
		return 42
	case model.Yellow:
		return 29
	}
	return -1
}

// HomePosition is the exact position a token must land on (or pass) to
// reach its home slot. Overshooting it is illegal.
func HomePosition(c model.Color) int {
	switch c {
	case model.Red:
		return 73
	case model.Blue:
		return 79
	case model.Green:
		return 85
	case model.Yellow:
		return 91
	}
	return -1
}

// CanExitBase reports whether a dice value lets a token leave base.
func CanExitBase(diceValue int) bool {
	return diceValue == 1 || diceValue == 6
}

type Legality struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}

// CheckMove decides whether a single token may move with the given dice
// value. It never mutates the token.
func CheckMove(t *model.Token, diceValue int) Legality {
	if t.Zone == model.ZoneHome {
		return Legality{Reason: "token already home"}
	}
	if t.Zone == model.ZoneBase {
		if !CanExitBase(diceValue) {
			return Legality{Reason: "need 1 or 6 to exit base"}
		}
		return Legality{Legal: true}
	}
	if t.TrackPosition+diceValue > HomePosition(t.Color) {
		return Legality{Reason: "move would overshoot home"}
	}
	return Legality{Legal: true}
}

type LegalMove struct {
	TokenIndex int `json:"tokenIndex"`
	From       int `json:"from"`
	To         int `json:"to"`
}

// LegalMoves lists every movable token for the player, token index ascending.
// An empty list means the whole turn has no legal move.
func LegalMoves(p *model.Player, diceValue int) []LegalMove {
	moves := make([]LegalMove, 0, len(p.Tokens))
	for i := range p.Tokens {
		t := &p.Tokens[i]
		if !CheckMove(t, diceValue).Legal {
			continue
		}
		to := t.TrackPosition + diceValue
		if t.Zone == model.ZoneBase {
			to = StartPosition(t.Color)
		}
		moves = append(moves, LegalMove{TokenIndex: i, From: t.TrackPosition, To: to})
	}
	return moves
}

// ShouldGrantExtraTurn decides whether the current player keeps the turn.
// sixes counts the player's consecutive sixes including the current roll.
// A third six forfeits the extra turn even when the same roll captured or
// reached home; the forfeiture always wins.
func ShouldGrantExtraTurn(diceValue, sixes int, result *MoveResult) bool {
	if diceValue == 6 {
		return sixes < 3
	}
	return result != nil && (len(result.Captured) > 0 || result.ReachedHome)
}

// ValidateRoom checks the token invariants. A non-nil error means the
// room state is corrupt and the game must not continue.
func ValidateRoom(r *model.Room) error {
	for _, p := range r.Players {
		for i := range p.Tokens {
			t := &p.Tokens[i]
			switch t.Zone {
			case model.ZoneBase:
				if t.TrackPosition != -1 || t.Steps != 0 {
					return ErrInconsistentState
				}
			case model.ZoneTrack:
				if t.TrackPosition < 0 || t.TrackPosition > HomePosition(t.Color) {
					return ErrInconsistentState
				}
			case model.ZoneHome:
				// nothing to check, score derives from the zone
			default:
				return ErrInconsistentState
			}
		}
	}
	return nil
}
