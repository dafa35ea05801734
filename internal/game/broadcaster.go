package game

import (
	"encoding/json"
	"sort"

	"ludo/internal/model"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (m *Manager) sendTo(p *model.Player, msg model.Message) {
	if p.Conn == nil {
		return
	}
	if err := p.Conn.WriteJSON(msg); err != nil {
		log.Debug().Str("player", p.ID).Err(err).Msg("dropping write to dead connection")
	}
}

func (m *Manager) broadcast(r *model.Room, msg model.Message) {
	for _, p := range r.Players {
		m.sendTo(p, msg)
	}
}

// SendError reports a per-action failure to the offending connection only.
func SendError(conn *websocket.Conn, text string) {
	if conn == nil {
		return
	}
	conn.WriteJSON(model.Message{Type: "error", Payload: map[string]string{"message": text}})
}

// roomStatePayload is the full public snapshot: every field a client needs
// to render the room, all derived from room state at this instant.
func roomStatePayload(r *model.Room) map[string]interface{} {
	players := make([]map[string]interface{}, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, map[string]interface{}{
			"id":          p.ID,
			"name":        p.Name,
			"color":       p.Color,
			"tokens":      p.Tokens,
			"totalScore":  p.TotalScore(),
			"captures":    p.Captures,
			"ready":       p.Ready,
			"isOnline":    p.IsOnline,
			"turnsPlayed": p.TurnsPlayed,
		})
	}
	return map[string]interface{}{
		"id":            r.ID,
		"name":          r.Name,
		"createdBy":     r.CreatedBy,
		"maxPlayers":    r.MaxPlayers,
		"players":       players,
		"gameState":     r.GameState,
		"turnOrder":     r.TurnOrder,
		"currentTurn":   r.CurrentTurn,
		"diceValue":     r.DiceValue,
		"winner":        r.Winner,
		"winCondition":  r.WinCondition,
		"gameTime":      r.GameTimeRemaining().Milliseconds(),
		"turnTime":      r.TurnTimeRemaining().Milliseconds(),
	}
}

// BroadcastRoomState sends room:data to everyone in the room, then mirrors
// the room to the store and refreshes the lobby list.
func (m *Manager) BroadcastRoomState(r *model.Room) {
	m.broadcast(r, model.Message{Type: "room:data", Payload: roomStatePayload(r)})
	m.Store.PersistRoom(r)
	go m.BroadcastRoomList()
}

// BroadcastScores sends the game:scores event after every state-changing
// action: per-player snapshots, ranked leaderboard and both clocks.
func (m *Manager) BroadcastScores(r *model.Room) {
	m.broadcast(r, model.Message{Type: "game:scores", Payload: map[string]interface{}{
		"roomId":      r.ID,
		"scores":      Scores(r),
		"leaderboard": Leaderboard(r),
		"gameTime":    r.GameTimeRemaining().Milliseconds(),
		"turnTime":    r.TurnTimeRemaining().Milliseconds(),
		"currentTurn": r.CurrentTurn,
	}})
}

func (m *Manager) BroadcastTurn(r *model.Room) {
	m.broadcast(r, model.Message{Type: "game:turn", Payload: map[string]interface{}{
		"currentTurn": r.CurrentTurn,
		"turnTime":    r.TurnTimeRemaining().Milliseconds(),
		"gameTime":    r.GameTimeRemaining().Milliseconds(),
	}})
}

func (m *Manager) BroadcastInfo(r *model.Room, text string) {
	m.broadcast(r, model.Message{Type: "info", Payload: text})
}

// BroadcastStats sends the historical results for this room code.
func (m *Manager) BroadcastStats(r *model.Room) {
	stats := m.Store.GetRoomStats(r.ID)
	m.broadcast(r, model.Message{Type: "stats", Payload: stats})
}

// FinishBroadcast records the finished game and announces the result.
// The room must already be in the finished state.
func (m *Manager) FinishBroadcast(r *model.Room) {
	m.Store.RecordGameResult(r.ID, r.Players, r.Winner)
	m.broadcast(r, model.Message{Type: "game:end", Payload: map[string]interface{}{
		"winnerId":     r.Winner,
		"winCondition": r.WinCondition,
		"leaderboard":  Leaderboard(r),
	}})
	m.BroadcastStats(r)
	m.BroadcastRoomState(r)
}

// BroadcastRoomList pushes the open public rooms to every lobby connection.
func (m *Manager) BroadcastRoomList() {
	list := make([]model.RoomSummary, 0)
	m.RoomsLock.Lock()
	for id, r := range m.Rooms {
		r.Mutex.Lock()
		if !r.IsPrivate {
			ownerName := r.CreatedBy
			if owner := r.PlayerByID(r.CreatedBy); owner != nil {
				ownerName = owner.Name
			}
			list = append(list, model.RoomSummary{
				ID:          id,
				Name:        r.Name,
				OwnerName:   ownerName,
				PlayerCount: len(r.Players),
				MaxPlayers:  r.MaxPlayers,
				GameState:   r.GameState,
			})
		}
		r.Mutex.Unlock()
	}
	m.RoomsLock.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	msg := model.Message{Type: "room_list", Payload: list}
	msgBytes, _ := json.Marshal(msg)

	m.LobbyLock.Lock()
	for conn := range m.LobbyConns {
		conn.WriteMessage(websocket.TextMessage, msgBytes)
	}
	m.LobbyLock.Unlock()
}
