package game

import (
	"context"
	"time"

	"ludo/internal/model"

	"github.com/rs/zerolog/log"
)

// RunDeadlines is the only server-initiated mutator: a once-a-second sweep
// that forces the turn or game transition when a deadline elapses with no
// client action. Every mutation happens under the room mutex, same as the
// intent handlers.
func (m *Manager) RunDeadlines(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepDeadlines()
		}
	}
}

func (m *Manager) sweepDeadlines() {
	m.RoomsLock.Lock()
	rooms := make([]*model.Room, 0, len(m.Rooms))
	for _, r := range m.Rooms {
		rooms = append(rooms, r)
	}
	m.RoomsLock.Unlock()

	for _, r := range rooms {
		r.Mutex.Lock()
		if r.GameState != model.StatePlaying {
			r.Mutex.Unlock()
			continue
		}
		if CheckTimeUp(r) {
			log.Info().Str("room", r.ID).Str("winner", r.Winner).Msg("game time elapsed")
			m.BroadcastScores(r)
			m.FinishBroadcast(r)
		} else if r.TurnTimeRemaining() <= 0 {
			// The slow player loses the turn; a pending unspent roll is lost
			// with it.
			skipped := r.CurrentTurn
			NextTurn(r)
			log.Debug().Str("room", r.ID).Str("skipped", string(skipped)).Msg("turn deadline elapsed")
			m.BroadcastTurn(r)
			m.Store.PersistRoom(r)
		}
		r.Mutex.Unlock()
	}
}
