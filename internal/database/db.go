package database

import (
	"database/sql"
	"encoding/json"

	"ludo/internal/model"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Store is a write-behind mirror of the in-memory rooms. It is written
// after every mutation, read once at boot, and never consulted mid-turn.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	sqlStmt := `CREATE TABLE IF NOT EXISTS rooms (id TEXT PRIMARY KEY, name TEXT, created_by TEXT, status TEXT, state_json TEXT, created_at DATETIME DEFAULT CURRENT_TIMESTAMP);`
	sqlStmt += `CREATE TABLE IF NOT EXISTS game_history (id INTEGER PRIMARY KEY AUTOINCREMENT, room_id TEXT, player_name TEXT, color TEXT, score INTEGER, captures INTEGER, won INTEGER, played_at DATETIME DEFAULT CURRENT_TIMESTAMP);`
	sqlStmt += `CREATE TABLE IF NOT EXISTS users (name TEXT PRIMARY KEY, id TEXT);`
	if _, err = db.Exec(sqlStmt); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// GetOrCreateUserID maps a player name to a stable id so a reconnect under
// the same name lands on the same seat.
func (s *Store) GetOrCreateUserID(name string) string {
	var id string
	err := s.db.QueryRow("SELECT id FROM users WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id
	}

	id = uuid.NewString()
	_, err = s.db.Exec("INSERT INTO users (name, id) VALUES (?, ?)", name, id)
	if err != nil {
		// Concurrent insert for the same name: take whatever won.
		s.db.QueryRow("SELECT id FROM users WHERE name = ?", name).Scan(&id)
	}
	return id
}

// RecordGameResult appends one history row per player of a finished game.
func (s *Store) RecordGameResult(roomID string, players []*model.Player, winnerID string) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Error().Err(err).Msg("recording game result")
		return
	}
	stmt, err := tx.Prepare("INSERT INTO game_history(room_id, player_name, color, score, captures, won) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()
	for _, p := range players {
		won := 0
		if p.ID == winnerID {
			won = 1
		}
		stmt.Exec(roomID, p.Name, p.Color, p.TotalScore(), p.Captures, won)
	}
	tx.Commit()
}

// GetRoomStats aggregates the history of a room code, best totals first.
func (s *Store) GetRoomStats(roomID string) []model.PlayerStat {
	stats := make([]model.PlayerStat, 0)

	rows, err := s.db.Query(`SELECT player_name, COUNT(*) as games, SUM(score) as total_score, SUM(won) as wins FROM game_history WHERE room_id = ? GROUP BY player_name ORDER BY total_score DESC`, roomID)
	if err != nil {
		return stats
	}
	defer rows.Close()

	for rows.Next() {
		var st model.PlayerStat
		rows.Scan(&st.Name, &st.TotalGames, &st.TotalScore, &st.TotalWins)
		stats = append(stats, st)
	}
	return stats
}

// LoadRooms restores the room mirror from the last shutdown. Connections
// are gone, so every player comes back offline and not ready; games that
// were mid-play do not survive a restart and finish with no winner.
func (s *Store) LoadRooms() (map[string]*model.Room, error) {
	rooms := make(map[string]*model.Room)
	rows, err := s.db.Query("SELECT id, state_json FROM rooms")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var stateJSON sql.NullString
		rows.Scan(&id, &stateJSON)

		if !stateJSON.Valid || stateJSON.String == "" {
			continue
		}
		room := &model.Room{}
		if err := json.Unmarshal([]byte(stateJSON.String), room); err != nil {
			log.Warn().Str("room", id).Err(err).Msg("skipping unreadable room snapshot")
			continue
		}
		room.ID = id
		for _, p := range room.Players {
			p.IsOnline = false
			p.Ready = false
		}
		if room.GameState == model.StatePlaying {
			room.GameState = model.StateFinished
			room.WinCondition = model.WinInconsistent
		}
		rooms[id] = room
	}
	return rooms, nil
}

// PersistRoom mirrors the whole room, players and tokens included, as one
// JSON snapshot.
func (s *Store) PersistRoom(r *model.Room) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Error().Str("room", r.ID).Err(err).Msg("marshaling room")
		return
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO rooms (id, name, created_by, status, state_json) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Name, r.CreatedBy, r.GameState, string(data))
	if err != nil {
		log.Error().Str("room", r.ID).Err(err).Msg("persisting room")
	}
}

func (s *Store) DeleteRoom(roomID string) {
	s.db.Exec("DELETE FROM rooms WHERE id = ?", roomID)
}
