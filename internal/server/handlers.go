package server

import (
	"net/http"
	"strings"

	"ludo/internal/database"
	"ludo/internal/game"
	"ludo/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	Manager *game.Manager
	Store   *database.Store
}

func NewHandler(m *game.Manager, s *database.Store) *Handler {
	return &Handler{Manager: m, Store: s}
}

// NewRouter wires the discovery/administration surface and the two
// websocket endpoints. The HTTP reads never mutate game state.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Upgrade", "Connection"},
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/:roomId/scores", h.RoomScores)

	r.GET("/ws", h.GameWS)
	r.GET("/lobby_ws", h.LobbyWS)
	return r
}

// ListRooms returns the public rooms still accepting players.
func (h *Handler) ListRooms(c *gin.Context) {
	list := make([]model.RoomSummary, 0)
	h.Manager.RoomsLock.Lock()
	for id, r := range h.Manager.Rooms {
		r.Mutex.Lock()
		open := r.GameState == model.StateWaiting || r.GameState == model.StateReady
		if open && !r.IsPrivate {
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
	h.Manager.RoomsLock.Unlock()
	c.JSON(http.StatusOK, list)
}

type createRoomRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	IsPrivate  bool   `json:"isPrivate"`
	CreatedBy  string `json:"createdBy"`
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	creatorID := h.Store.GetOrCreateUserID(strings.TrimSpace(req.CreatedBy))
	room := h.Manager.CreateRoom(req.Name, creatorID, req.MaxPlayers, req.IsPrivate)

	room.Mutex.Lock()
	resp := gin.H{
		"id":         room.ID,
		"name":       room.Name,
		"maxPlayers": room.MaxPlayers,
		"isPrivate":  room.IsPrivate,
		"gameState":  room.GameState,
		"createdBy":  room.CreatedBy,
		"playerId":   creatorID,
	}
	room.Mutex.Unlock()

	go h.Manager.BroadcastRoomList()
	c.JSON(http.StatusCreated, resp)
}

// RoomScores is a thin read over the room entity.
func (h *Handler) RoomScores(c *gin.Context) {
	room, exists := h.Manager.GetRoom(c.Param("roomId"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Error()})
		return
	}
	room.Mutex.Lock()
	resp := gin.H{
		"scores":      game.Scores(room),
		"leaderboard": game.Leaderboard(room),
		"gameTime":    room.GameTimeRemaining().Milliseconds(),
		"gameState":   room.GameState,
	}
	room.Mutex.Unlock()
	c.JSON(http.StatusOK, resp)
}

// LobbyWS streams the open-room list; the client never sends anything
// meaningful on it.
func (h *Handler) LobbyWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.Manager.LobbyLock.Lock()
	h.Manager.LobbyConns[ws] = true
	h.Manager.LobbyLock.Unlock()

	go h.Manager.BroadcastRoomList()

	defer func() {
		h.Manager.LobbyLock.Lock()
		delete(h.Manager.LobbyConns, ws)
		h.Manager.LobbyLock.Unlock()
		ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

// GameWS is the per-player sync channel: intents in, events out. All room
// mutations happen under the room mutex between read and reply, so two
// intents for the same room can never interleave.
func (h *Handler) GameWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	limiter := rate.NewLimiter(1, 5)
	var currentRoom *model.Room
	var currentPlayerID string

	defer func() {
		if currentRoom != nil {
			currentRoom.Mutex.Lock()
			if p := currentRoom.PlayerByID(currentPlayerID); p != nil && p.Conn == ws {
				// Disconnect keeps the seat and the turn slot; the deadline
				// sweep moves the game past an absent player.
				p.Conn = nil
				p.IsOnline = false
				log.Info().Str("room", currentRoom.ID).Str("player", p.Name).Msg("player disconnected")
				h.Manager.BroadcastRoomState(currentRoom)
			}
			currentRoom.Mutex.Unlock()
		}
		ws.Close()
	}()

	for {
		var action model.Action
		if err := ws.ReadJSON(&action); err != nil {
			break
		}
		if !limiter.Allow() {
			continue
		}

		switch action.Type {
		case "room:join":
			room, exists := h.Manager.GetRoom(action.RoomID)
			if !exists {
				game.SendError(ws, game.ErrRoomNotFound.Error())
				continue
			}
			name := strings.TrimSpace(action.PlayerName)
			uid := action.PlayerID
			if uid == "" {
				uid = h.Store.GetOrCreateUserID(name)
			}

			room.Mutex.Lock()
			p := room.PlayerByID(uid)
			if p != nil {
				p.Conn = ws
				p.IsOnline = true
				if name != "" {
					p.Name = name
				}
			} else {
				var joinErr error
				p, joinErr = game.AddPlayer(room, uid, name)
				if joinErr != nil {
					game.SendError(ws, joinErr.Error())
					room.Mutex.Unlock()
					continue
				}
				p.Conn = ws
				log.Info().Str("room", room.ID).Str("player", p.Name).Str("color", string(p.Color)).Msg("player joined")
			}
			currentRoom = room
			currentPlayerID = uid

			ws.WriteJSON(model.Message{Type: "identity", Payload: map[string]string{"id": uid, "name": p.Name}})
			h.Manager.BroadcastRoomState(room)
			room.Mutex.Unlock()

		case "player:ready":
			if currentRoom == nil {
				game.SendError(ws, "join a room first")
				continue
			}
			currentRoom.Mutex.Lock()
			// the error write shares the room mutex with the broadcasts, so
			// this conn only ever has one writer at a time
			if err := h.Manager.HandleReady(currentRoom, currentPlayerID, action.Ready); err != nil {
				game.SendError(ws, err.Error())
			}
			currentRoom.Mutex.Unlock()

		case "game:roll":
			if currentRoom == nil {
				game.SendError(ws, "join a room first")
				continue
			}
			currentRoom.Mutex.Lock()
			if err := h.Manager.HandleRoll(currentRoom, currentPlayerID); err != nil {
				game.SendError(ws, err.Error())
			}
			currentRoom.Mutex.Unlock()

		case "game:move":
			if currentRoom == nil {
				game.SendError(ws, "join a room first")
				continue
			}
			currentRoom.Mutex.Lock()
			if err := h.Manager.HandleMove(currentRoom, currentPlayerID, action.TokenIndex); err != nil {
				game.SendError(ws, err.Error())
			}
			currentRoom.Mutex.Unlock()

		case "room:delete":
			if currentRoom == nil {
				game.SendError(ws, "join a room first")
				continue
			}
			currentRoom.Mutex.Lock()
			err := h.Manager.HandleDeleteRoom(currentRoom, currentPlayerID)
			if err != nil {
				game.SendError(ws, err.Error())
			}
			currentRoom.Mutex.Unlock()
			if err != nil {
				continue
			}
			// removal takes the manager lock, so it happens after the room
			// mutex is released
			h.Manager.DeleteRoom(currentRoom.ID)
			go h.Manager.BroadcastRoomList()
			currentRoom = nil
			currentPlayerID = ""

		case "room:leave":
			if currentRoom == nil {
				continue
			}
			currentRoom.Mutex.Lock()
			if game.RemovePlayer(currentRoom, currentPlayerID) {
				h.Manager.BroadcastRoomState(currentRoom)
			} else if p := currentRoom.PlayerByID(currentPlayerID); p != nil {
				// Mid-game leave: the seat stays occupied, only the
				// connection goes away.
				p.Conn = nil
				p.IsOnline = false
				h.Manager.BroadcastInfo(currentRoom, p.Name+" left the game")
				h.Manager.BroadcastRoomState(currentRoom)
			}
			currentRoom.Mutex.Unlock()
			currentRoom = nil
			currentPlayerID = ""
			return

		default:
			if currentRoom != nil {
				currentRoom.Mutex.Lock()
				game.SendError(ws, "unknown action")
				currentRoom.Mutex.Unlock()
			} else {
				game.SendError(ws, "unknown action")
			}
		}
	}
}
