package game

import (
	"strings"
	"sync"

	"ludo/internal/database"
	"ludo/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Manager struct {
	Rooms      map[string]*model.Room
	RoomsLock  sync.Mutex
	LobbyConns map[*websocket.Conn]bool
	LobbyLock  sync.Mutex
	Store      *database.Store
}

func NewManager(store *database.Store) *Manager {
	return &Manager{
		Rooms:      make(map[string]*model.Room),
		LobbyConns: make(map[*websocket.Conn]bool),
		Store:      store,
	}
}

func (m *Manager) LoadRooms() {
	rooms, err := m.Store.LoadRooms()
	if err != nil {
		log.Error().Err(err).Msg("loading rooms")
		return
	}
	m.RoomsLock.Lock()
	m.Rooms = rooms
	m.RoomsLock.Unlock()
	log.Info().Int("count", len(rooms)).Msg("rooms loaded from database")
}

// CreateRoom registers a new waiting room under a short unique code.
func (m *Manager) CreateRoom(name, createdBy string, maxPlayers int, private bool) *model.Room {
	m.RoomsLock.Lock()
	defer m.RoomsLock.Unlock()

	var id string
	for {
		id = strings.ToUpper(uuid.NewString()[:8])
		if _, exists := m.Rooms[id]; !exists {
			break
		}
	}
	room := NewRoom(id, name, createdBy, maxPlayers, private)
	if room.Name == "" {
		room.Name = "Room " + id
	}
	m.Rooms[id] = room
	m.Store.PersistRoom(room)
	log.Info().Str("room", id).Str("name", name).Msg("room created")
	return room
}

func (m *Manager) GetRoom(id string) (*model.Room, bool) {
	m.RoomsLock.Lock()
	room, exists := m.Rooms[id]
	m.RoomsLock.Unlock()
	return room, exists
}

func (m *Manager) DeleteRoom(id string) {
	m.RoomsLock.Lock()
	delete(m.Rooms, id)
	m.RoomsLock.Unlock()
	m.Store.DeleteRoom(id)
}
