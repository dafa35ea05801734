package game

import (
	"sort"

	"ludo/internal/model"
)

// ScoreSnapshot is the per-player scoring view attached to game:scores
// events. Everything in it derives from room state at emission time.
type ScoreSnapshot struct {
	PlayerID    string      `json:"playerId"`
	Name        string      `json:"name"`
	Color       model.Color `json:"color"`
	TotalScore  int         `json:"totalScore"`
	Captures    int         `json:"captures"`
	TokensHome  int         `json:"tokensHome"`
	TokenScores []int       `json:"tokenScores"`
}

func snapshotPlayer(p *model.Player) ScoreSnapshot {
	s := ScoreSnapshot{
		PlayerID:    p.ID,
		Name:        p.Name,
		Color:       p.Color,
		TotalScore:  p.TotalScore(),
		Captures:    p.Captures,
		TokensHome:  p.TokensHome(),
		TokenScores: make([]int, 0, len(p.Tokens)),
	}
	for i := range p.Tokens {
		s.TokenScores = append(s.TokenScores, p.Tokens[i].Score())
	}
	return s
}

// Scores returns the snapshot of every player keyed by player id.
func Scores(r *model.Room) map[string]ScoreSnapshot {
	scores := make(map[string]ScoreSnapshot, len(r.Players))
	for _, p := range r.Players {
		scores[p.ID] = snapshotPlayer(p)
	}
	return scores
}

// Leaderboard ranks players by score, then captures, then join order.
// The stable sort over the join-ordered slice makes the last tie-break
// implicit: the earliest joiner wins.
func Leaderboard(r *model.Room) []ScoreSnapshot {
	board := make([]ScoreSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		board = append(board, snapshotPlayer(p))
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].TotalScore != board[j].TotalScore {
			return board[i].TotalScore > board[j].TotalScore
		}
		return board[i].Captures > board[j].Captures
	})
	return board
}
